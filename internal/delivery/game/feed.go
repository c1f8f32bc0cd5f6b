package game

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban_rules/internal/domain/game"
	gameuc "goban_rules/internal/usecase/game"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans game events out to websocket observers. A client that cannot
// keep up is disconnected instead of slowing the game down.
type Feed struct {
	log     *zap.SugaredLogger
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewFeed(log *zap.SugaredLogger) *Feed {
	return &Feed{log: log, clients: make(map[*client]struct{})}
}

func (f *Feed) Publish(event game.FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		f.log.Errorf("encoding %s event: %v", event.Kind, err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		f.push(c, data)
	}
}

func (f *Feed) reply(c *client, event game.FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		f.log.Errorf("encoding %s reply: %v", event.Kind, err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		f.push(c, data)
	}
}

// push must be called with f.mu held.
func (f *Feed) push(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		f.log.Warnf("dropping slow feed client %s", c.conn.RemoteAddr())
		f.remove(c)
	}
}

func (f *Feed) add(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
	go c.writePump()
	return c
}

// remove must be called with f.mu held.
func (f *Feed) remove(c *client) {
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *Feed) leave(c *client) {
	f.mu.Lock()
	f.remove(c)
	f.mu.Unlock()
}

// Close disconnects every observer.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		f.remove(c)
	}
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// HandleFeed upgrades to a websocket that first receives the current
// board, then every game event. Moves sent by the client are played; a
// refused move is answered with an error event to that client only.
func (g *GameHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("websocket upgrade: %v", err)
		return
	}
	// Registered before the snapshot is taken so no event falls between them.
	c := g.feed.add(conn)
	defer g.feed.leave(c)

	state, err := g.gameUC.State(r.Context())
	if err != nil {
		g.feed.reply(c, game.FeedEvent{Kind: game.EventError, Error: err.Error()})
		return
	}
	g.feed.reply(c, game.FeedEvent{Kind: game.EventState, Rows: state.Rows})
	g.log.Infof("feed client %s connected", conn.RemoteAddr())

	for {
		var move game.Move
		if err := conn.ReadJSON(&move); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Infof("feed client %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if _, err := g.gameUC.PlayMove(r.Context(), move); err != nil {
			event := game.FeedEvent{Kind: game.EventError, Move: &move, Error: err.Error()}
			if reason, ok := gameuc.IsIllegal(err); ok {
				event.Error = reason.String()
			}
			g.feed.reply(c, event)
		}
	}
}
