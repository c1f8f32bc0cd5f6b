package game

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goban_rules/internal/domain/board"
	"goban_rules/internal/domain/game"
	"goban_rules/internal/domain/ko"
	repo "goban_rules/internal/repository"
	gameuc "goban_rules/internal/usecase/game"
)

type envelope struct {
	Status int             `json:"Status"`
	Body   json.RawMessage `json:"Body"`
}

func newServer(t *testing.T) (*httptest.Server, *Feed) {
	t.Helper()
	log := zap.NewNop().Sugar()
	storage := repo.NewRecordMapStorage(10)
	feed := NewFeed(log)
	uc := gameuc.NewGameUseCase(storage, storage, feed, gameuc.Options{Size: 9, Rule: ko.SimpleKo, Seed: board.DefaultSeed}, log)
	require.NoError(t, uc.Load(context.Background()))

	r := chi.NewRouter()
	NewGameHandler(log, uc, feed).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		feed.Close()
		srv.Close()
	})
	return srv, feed
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Body, out))
	}
	return resp.StatusCode
}

func TestBoardAndMoves(t *testing.T) {
	srv, _ := newServer(t)

	var state game.BoardState
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/board", "", &state))
	assert.Equal(t, 9, state.BoardSize)
	assert.Equal(t, 0, state.MoveCount)

	var res game.MoveResult
	for _, body := range []string{
		`{"color":"b","coordinates":"A1"}`,
		`{"color":"w","coordinates":"A2"}`,
		`{"color":"b","coordinates":"E5"}`,
	} {
		require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", body, &res))
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", `{"color":"w","coordinates":"B1"}`, &res))
	assert.Equal(t, []string{"A1"}, res.Captured)

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/board", "", &state))
	assert.Equal(t, 4, state.MoveCount)
	assert.Equal(t, 1, state.Prisoners["w"])
	assert.Equal(t, "O........", state.Rows[7])
	assert.Equal(t, ".O.......", state.Rows[8])
}

func TestIllegalMoveIsConflict(t *testing.T) {
	srv, _ := newServer(t)
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", `{"color":"b","coordinates":"C3"}`, nil))

	var legality game.Legality
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/legal", `{"color":"w","coordinates":"C3"}`, &legality))
	assert.False(t, legality.Legal)
	assert.Equal(t, "intersection occupied", legality.Reason)

	legality = game.Legality{}
	require.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/move", `{"color":"w","coordinates":"C3"}`, &legality))
	assert.Equal(t, "intersection occupied", legality.Reason)
}

func TestContractErrorsAreBadRequests(t *testing.T) {
	srv, _ := newServer(t)
	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/move", `{"color":"b","coordinates":"Z9"}`},
		{http.MethodPost, "/move", `{"color":"b"}`},
		{http.MethodPost, "/move", `{"colour":"b","coordinates":"C3"}`},
		{http.MethodPost, "/move", `not json`},
		{http.MethodPost, "/pass", `{"color":"green"}`},
		{http.MethodPost, "/undo", ``},
		{http.MethodPost, "/redo", ``},
		{http.MethodDelete, "/setup", ``},
		{http.MethodGet, "/legal-moves?color=x", ``},
		{http.MethodGet, "/archive?page=0", ``},
	}
	for _, tt := range tests {
		status := call(t, srv, tt.method, tt.path, tt.body, nil)
		assert.Equal(t, http.StatusBadRequest, status, "%s %s %s", tt.method, tt.path, tt.body)
	}
}

func TestUndoRedoPassAndSetup(t *testing.T) {
	srv, _ := newServer(t)

	var state game.BoardState
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/setup", `{"black":["D4"],"white":["F6"]}`, &state))
	assert.Equal(t, ".....O...", state.Rows[3])
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodDelete, "/setup", "", &state))
	assert.Equal(t, ".........", state.Rows[3])

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", `{"color":"b","coordinates":"E5"}`, nil))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/pass", `{"color":"w"}`, nil))
	require.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPost, "/setup", `{"black":["D4"]}`, nil))

	var res game.MoveResult
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/undo", "", &res))
	assert.True(t, res.Move.IsPass())
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/redo", "", &res))
	assert.Equal(t, "w", res.Move.Color)

	var moves game.LegalMoves
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/legal-moves?color=b", "", &moves))
	assert.Len(t, moves.Coordinates, 80)
}

func TestEndArchivesAndStartsOver(t *testing.T) {
	srv, _ := newServer(t)
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", `{"color":"b","coordinates":"E5"}`, nil))

	var rec game.Record
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/end", "", &rec))
	assert.Equal(t, game.StatusCompleted, rec.Status)

	require.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPost, "/move", `{"color":"w","coordinates":"C3"}`, nil))

	var archived game.Record
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/archive/"+rec.ID, "", &archived))
	assert.Equal(t, rec.Moves, archived.Moves)
	require.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/archive/missing", "", nil))

	var list []game.Record
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/archive?page=1", "", &list))
	assert.Len(t, list, 1)

	var state game.BoardState
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/new", `{"board_size":13,"ko_rule":"situational"}`, &state))
	assert.Equal(t, 13, state.BoardSize)
	assert.Equal(t, "situational", state.KoRule)
	assert.Equal(t, game.StatusActive, state.Status)
}

func TestFeedBroadcastsMoves(t *testing.T) {
	srv, feed := newServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var event game.FeedEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, game.EventState, event.Kind)
	assert.Len(t, event.Rows, 9)
	assert.Equal(t, 1, feed.Len())

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/move", `{"color":"b","coordinates":"E5"}`, nil))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, game.EventMove, event.Kind)
	assert.Equal(t, &game.Move{Color: "b", Coordinates: "E5"}, event.Move)

	require.NoError(t, conn.WriteJSON(game.Move{Color: "w", Coordinates: "E5"}))
	event = game.FeedEvent{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, game.EventError, event.Kind)
	assert.Equal(t, "intersection occupied", event.Error)

	require.NoError(t, conn.WriteJSON(game.Move{Color: "w", Coordinates: "D4"}))
	event = game.FeedEvent{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, game.EventMove, event.Kind)
	assert.Equal(t, "D4", event.Move.Coordinates)
}

func TestFeedReportsMissingGame(t *testing.T) {
	log := zap.NewNop().Sugar()
	storage := repo.NewRecordMapStorage(10)
	feed := NewFeed(log)
	uc := gameuc.NewGameUseCase(storage, storage, feed, gameuc.Options{Size: 9, Rule: ko.SimpleKo, Seed: board.DefaultSeed}, log)
	r := chi.NewRouter()
	NewGameHandler(log, uc, feed).Routes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var event game.FeedEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, game.EventError, event.Kind)
	assert.Contains(t, event.Error, "no game loaded")
	assert.Empty(t, event.Rows)
}

func TestInternalErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	g := &GameHandler{log: zap.NewNop().Sugar()}
	g.writeError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, json.Valid(bytes.TrimSpace(rec.Body.Bytes())))
}
