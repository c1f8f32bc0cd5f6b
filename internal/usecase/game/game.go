package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban_rules/internal/domain/board"
	"goban_rules/internal/domain/game"
	"goban_rules/internal/domain/ko"
	errs "goban_rules/internal/errors"
)

// RecordStore keeps the record of the game in progress.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec game.Record) error
	LoadRecord(ctx context.Context) (game.Record, error)
	DeleteRecord(ctx context.Context) error
}

// Archive keeps finished games.
type Archive interface {
	ArchiveRecord(ctx context.Context, rec game.Record) error
	GetArchivedRecord(ctx context.Context, id string) (game.Record, error)
	ListArchived(ctx context.Context, pageNum int) ([]game.Record, error)
}

// Notifier receives an event after every change of the game.
type Notifier interface {
	Publish(event game.FeedEvent)
}

// GameUseCase serves the single current game to the transports. Every
// call holds the mutex for its whole duration, so legality checks and
// mutations never interleave.
type GameUseCase struct {
	mu       sync.Mutex
	log      *zap.SugaredLogger
	store    RecordStore
	archive  Archive
	notifier Notifier
	defaults Options

	id        string
	createdAt time.Time
	current   *Game
}

func NewGameUseCase(store RecordStore, archive Archive, notifier Notifier, defaults Options, log *zap.SugaredLogger) *GameUseCase {
	return &GameUseCase{
		log:      log,
		store:    store,
		archive:  archive,
		notifier: notifier,
		defaults: defaults,
	}
}

// Load resumes the stored game. When there is none, or it cannot be read
// or replayed, a new one starts with the default options.
func (u *GameUseCase) Load(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, err := u.store.LoadRecord(ctx)
	if errors.Is(err, errs.ErrRecordNotFound) {
		u.log.Info("no stored game, starting a new one")
		return u.start(ctx, u.defaults)
	}
	if errors.Is(err, errs.ErrCorruptRecord) {
		u.log.Warnf("stored game is unreadable, starting a new one: %v", err)
		return u.start(ctx, u.defaults)
	}
	if err != nil {
		return err
	}

	g, err := Restore(rec, u.defaults.Seed, u.log)
	if err != nil {
		u.log.Warnf("stored game %s cannot be replayed, starting a new one: %v", rec.ID, err)
		return u.start(ctx, u.defaults)
	}
	u.id, u.createdAt, u.current = rec.ID, rec.CreatedAt, g
	u.log.Infof("resumed game %s at move %d", rec.ID, len(rec.Moves))
	return nil
}

// NewGame drops the current game and starts another one. A zero size or
// an empty rule falls back to the defaults.
func (u *GameUseCase) NewGame(ctx context.Context, size int, rule string) (game.BoardState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	opts := u.defaults
	if size != 0 {
		opts.Size = size
	}
	if rule != "" {
		r, err := ko.ParseRule(rule)
		if err != nil {
			return game.BoardState{}, err
		}
		opts.Rule = r
	}
	if err := u.start(ctx, opts); err != nil {
		return game.BoardState{}, err
	}
	return u.state(), nil
}

func (u *GameUseCase) start(ctx context.Context, opts Options) error {
	g, err := NewGame(opts, u.log)
	if err != nil {
		return err
	}
	prevID, prevCreated, prev := u.id, u.createdAt, u.current
	u.id, u.createdAt, u.current = uuid.NewString(), time.Now().UTC(), g
	if err := u.persist(ctx); err != nil {
		u.id, u.createdAt, u.current = prevID, prevCreated, prev
		return err
	}
	u.log.Infof("started game %s: %dx%d, %v ko", u.id, opts.Size, opts.Size, opts.Rule)
	return nil
}

func (u *GameUseCase) State(ctx context.Context) (game.BoardState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.BoardState{}, err
	}
	return u.state(), nil
}

func (u *GameUseCase) state() game.BoardState {
	g := u.current
	status := game.StatusActive
	if g.Ended() {
		status = game.StatusCompleted
	}
	return game.BoardState{
		GameID:    u.id,
		BoardSize: g.Board().Size(),
		KoRule:    g.Rule().String(),
		Rows:      g.Board().Rows(),
		MoveCount: len(g.moves),
		Prisoners: map[string]int{
			board.Black.Short(): g.Prisoners(board.Black),
			board.White.Short(): g.Prisoners(board.White),
		},
		Status: status,
	}
}

func (u *GameUseCase) ready() error {
	if u.current == nil {
		return fmt.Errorf("%w: no game loaded", errs.ErrInvalidState)
	}
	return nil
}

// CheckMove tells whether m could be played now without playing it.
func (u *GameUseCase) CheckMove(ctx context.Context, m game.Move) (game.Legality, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.Legality{}, err
	}
	if m.IsPass() {
		return game.Legality{}, fmt.Errorf("%w: a pass is always legal", errs.ErrInvalidArgument)
	}
	c, v, err := ParseMove(m, u.current.Board().Size())
	if err != nil {
		return game.Legality{}, err
	}
	legal, reason, err := u.current.IsLegalMove(v, c)
	if err != nil {
		return game.Legality{}, err
	}
	return game.Legality{Legal: legal, Reason: reason.String()}, nil
}

// PlayMove applies m, which may be a pass.
func (u *GameUseCase) PlayMove(ctx context.Context, m game.Move) (game.MoveResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.MoveResult{}, err
	}
	c, v, err := ParseMove(m, u.current.Board().Size())
	if err != nil {
		return game.MoveResult{}, err
	}

	redo := u.current.redo
	var captured []board.Vertex
	if m.IsPass() {
		err = u.current.Pass(c)
	} else {
		captured, err = u.current.ApplyMove(v, c)
	}
	if err != nil {
		return game.MoveResult{}, err
	}

	err = u.commit(ctx, func() error {
		if _, err := u.current.UndoLastMove(); err != nil {
			return err
		}
		u.current.redo = redo
		return nil
	})
	if err != nil {
		return game.MoveResult{}, err
	}

	res := game.MoveResult{
		Move:     plyToMove(*u.current.lastMove()),
		Captured: board.FormatVertices(captured),
	}
	u.publish(game.EventMove, &res.Move, res.Captured)
	return res, nil
}

func (u *GameUseCase) Undo(ctx context.Context) (game.MoveResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.MoveResult{}, err
	}
	p, err := u.current.UndoLastMove()
	if err != nil {
		return game.MoveResult{}, err
	}
	err = u.commit(ctx, func() error {
		_, err := u.current.RedoMove()
		return err
	})
	if err != nil {
		return game.MoveResult{}, err
	}
	res := game.MoveResult{Move: plyToMove(p), Captured: board.FormatVertices(p.Captured)}
	u.publish(game.EventUndo, &res.Move, res.Captured)
	return res, nil
}

func (u *GameUseCase) Redo(ctx context.Context) (game.MoveResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.MoveResult{}, err
	}
	p, err := u.current.RedoMove()
	if err != nil {
		return game.MoveResult{}, err
	}
	err = u.commit(ctx, func() error {
		_, err := u.current.UndoLastMove()
		return err
	})
	if err != nil {
		return game.MoveResult{}, err
	}
	res := game.MoveResult{Move: plyToMove(p), Captured: board.FormatVertices(p.Captured)}
	u.publish(game.EventRedo, &res.Move, res.Captured)
	return res, nil
}

func (u *GameUseCase) Setup(ctx context.Context, s game.Setup) (game.BoardState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.BoardState{}, err
	}
	size := u.current.Board().Size()
	black, err := board.ParseVertices(s.Black, size)
	if err != nil {
		return game.BoardState{}, err
	}
	white, err := board.ParseVertices(s.White, size)
	if err != nil {
		return game.BoardState{}, err
	}
	cleared, err := board.ParseVertices(s.Cleared, size)
	if err != nil {
		return game.BoardState{}, err
	}
	redo := u.current.redo
	if err := u.current.ApplySetup(black, white, cleared); err != nil {
		return game.BoardState{}, err
	}
	err = u.commit(ctx, func() error {
		if err := u.current.RevertSetup(); err != nil {
			return err
		}
		u.current.redo = redo
		return nil
	})
	if err != nil {
		return game.BoardState{}, err
	}
	u.publish(game.EventSetup, nil, nil)
	return u.state(), nil
}

func (u *GameUseCase) RevertSetup(ctx context.Context) (game.BoardState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.BoardState{}, err
	}
	setups, redo := u.current.setups, u.current.redo
	if err := u.current.RevertSetup(); err != nil {
		return game.BoardState{}, err
	}
	err := u.commit(ctx, func() error {
		last := setups[len(setups)-1]
		if err := u.current.ApplySetup(last.Black, last.White, last.Cleared); err != nil {
			return err
		}
		u.current.redo = redo
		return nil
	})
	if err != nil {
		return game.BoardState{}, err
	}
	u.publish(game.EventRevert, nil, nil)
	return u.state(), nil
}

func (u *GameUseCase) LegalMoves(ctx context.Context, color string) (game.LegalMoves, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.LegalMoves{}, err
	}
	c, err := board.ParseColor(color)
	if err != nil {
		return game.LegalMoves{}, err
	}
	vs, err := u.current.LegalMoves(c)
	if err != nil {
		return game.LegalMoves{}, err
	}
	return game.LegalMoves{Color: c.Short(), Coordinates: board.FormatVertices(vs)}, nil
}

// EndGame closes the current game, moves its record to the archive and
// clears the store.
func (u *GameUseCase) EndGame(ctx context.Context) (game.Record, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ready(); err != nil {
		return game.Record{}, err
	}
	if u.current.Ended() {
		return game.Record{}, fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}

	// The game only ends once the archive holds it, so a failed attempt
	// can be retried.
	rec := u.record()
	endedAt := time.Now().UTC()
	rec.Status, rec.EndedAt = game.StatusCompleted, &endedAt
	if err := u.archive.ArchiveRecord(ctx, rec); err != nil {
		u.log.Errorf("archiving game %s: %v", rec.ID, err)
		return game.Record{}, err
	}
	if err := u.store.DeleteRecord(ctx); err != nil {
		u.log.Errorf("clearing game %s: %v", rec.ID, err)
		return game.Record{}, err
	}
	u.current.End()
	u.publish(game.EventEnd, nil, nil)
	u.log.Infof("game %s archived", rec.ID)
	return rec, nil
}

func (u *GameUseCase) ArchivedGame(ctx context.Context, id string) (game.Record, error) {
	return u.archive.GetArchivedRecord(ctx, id)
}

func (u *GameUseCase) ArchivedGames(ctx context.Context, pageNum int) ([]game.Record, error) {
	return u.archive.ListArchived(ctx, pageNum)
}

func (u *GameUseCase) record() game.Record {
	return u.current.Record(u.id, u.createdAt)
}

// commit saves the game after a change. When the save fails, undo reverts
// the change so the game matches what is stored.
func (u *GameUseCase) commit(ctx context.Context, undo func() error) error {
	err := u.persist(ctx)
	if err == nil {
		return nil
	}
	if undoErr := undo(); undoErr != nil {
		u.log.Errorf("reverting unsaved change to game %s: %v", u.id, undoErr)
	}
	return err
}

func (u *GameUseCase) persist(ctx context.Context) error {
	if err := u.store.SaveRecord(ctx, u.record()); err != nil {
		u.log.Errorf("saving game %s: %v", u.id, err)
		return err
	}
	return nil
}

func (u *GameUseCase) publish(kind string, m *game.Move, captured []string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Publish(game.FeedEvent{
		Kind:     kind,
		Move:     m,
		Captured: captured,
		Rows:     u.current.Board().Rows(),
	})
}
