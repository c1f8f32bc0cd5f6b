package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"goban_rules/internal/domain/board"
	"goban_rules/internal/domain/ko"
	errs "goban_rules/internal/errors"
)

type Options struct {
	Size int
	Rule ko.Rule
	Seed int64
}

// IllegalMoveError carries the reason a move was refused.
type IllegalMoveError struct {
	Color  board.Color
	Vertex board.Vertex
	Reason ko.Reason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("%v %v: %v", e.Color, e.Vertex, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error { return errs.ErrIllegalMove }

// Setup is one batch of stones placed or cleared outside of play.
type Setup struct {
	Black   []board.Vertex
	White   []board.Vertex
	Cleared []board.Vertex

	prior map[board.Color][]board.Vertex
}

// Game is the rules state of one game: the board, the moves played, the
// superko history (always as long as the move list) and the prisoners.
// It is not safe for concurrent use.
type Game struct {
	log       *zap.SugaredLogger
	board     *board.Board
	engine    *ko.Engine
	history   *ko.History
	moves     []ko.Ply
	redo      []ko.Ply
	setups    []Setup
	prisoners map[board.Color]int
	ended     bool
}

func NewGame(opts Options, log *zap.SugaredLogger) (*Game, error) {
	if opts.Size < board.MinSize || opts.Size > board.MaxSize {
		return nil, fmt.Errorf("%w: board size %d outside %d..%d", errs.ErrInvalidArgument, opts.Size, board.MinSize, board.MaxSize)
	}
	b, err := board.New(opts.Size, board.NewZobrist(opts.Size, opts.Seed))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Game{
		log:       log,
		board:     b,
		engine:    ko.NewEngine(opts.Rule),
		history:   ko.NewHistory(b.Fingerprint()),
		prisoners: make(map[board.Color]int, 2),
	}, nil
}

func (g *Game) Board() *board.Board { return g.board }
func (g *Game) History() *ko.History { return g.history }
func (g *Game) Rule() ko.Rule { return g.engine.Rule() }
func (g *Game) Ended() bool { return g.ended }
func (g *Game) Moves() []ko.Ply { return append([]ko.Ply(nil), g.moves...) }
func (g *Game) CanRedo() bool { return len(g.redo) > 0 }
func (g *Game) Prisoners(c board.Color) int { return g.prisoners[c] }

func (g *Game) lastMove() *ko.Ply {
	if len(g.moves) == 0 {
		return nil
	}
	return &g.moves[len(g.moves)-1]
}

// Check runs the full legality check for c on v.
func (g *Game) Check(v board.Vertex, c board.Color) (ko.Verdict, error) {
	return g.engine.Check(g.board, g.history, g.lastMove(), v, c)
}

func (g *Game) IsLegalMove(v board.Vertex, c board.Color) (bool, ko.Reason, error) {
	verdict, err := g.Check(v, c)
	if err != nil {
		return false, ko.None, err
	}
	return verdict.Legal(), verdict.Reason, nil
}

// LegalMoves lists every point where c may play, in board order.
func (g *Game) LegalMoves(c board.Color) ([]board.Vertex, error) {
	size := g.board.Size()
	var out []board.Vertex
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := board.Vertex{X: x, Y: y}
			if g.board.ColorAt(v) != board.Empty {
				continue
			}
			verdict, err := g.Check(v, c)
			if err != nil {
				return nil, err
			}
			if verdict.Legal() {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// ApplyMove plays c on v and returns the captured stones. An illegal move
// fails with *IllegalMoveError and changes nothing.
func (g *Game) ApplyMove(v board.Vertex, c board.Color) ([]board.Vertex, error) {
	captured, err := g.play(v, c)
	if err != nil {
		return nil, err
	}
	g.redo = nil
	return captured, nil
}

func (g *Game) play(v board.Vertex, c board.Color) ([]board.Vertex, error) {
	if g.ended {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}
	verdict, err := g.Check(v, c)
	if err != nil {
		return nil, err
	}
	if !verdict.Legal() {
		g.log.Debugf("rejected %v %v: %v", c, v, verdict.Reason)
		return nil, &IllegalMoveError{Color: c, Vertex: v, Reason: verdict.Reason}
	}

	captured, err := g.board.PlaceStone(v, c)
	if err != nil {
		return nil, fmt.Errorf("%w: placing checked move %v %v: %v", errs.ErrInternal, c, v, err)
	}
	g.moves = append(g.moves, ko.Ply{Color: c, Vertex: v, Captured: captured})
	g.history.Push(ko.Entry{Fingerprint: g.board.Fingerprint(), Color: c})
	g.prisoners[c] += len(captured)

	g.log.Debugf("move %d: %v %v captured %d", len(g.moves), c, v, len(captured))
	return captured, nil
}

// Pass records a pass for c. The position does not change and a pass is
// never illegal.
func (g *Game) Pass(c board.Color) error {
	if err := g.pass(c); err != nil {
		return err
	}
	g.redo = nil
	return nil
}

func (g *Game) pass(c board.Color) error {
	if g.ended {
		return fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}
	if !c.IsStone() {
		return fmt.Errorf("%w: %v cannot pass", errs.ErrInvalidArgument, c)
	}
	g.moves = append(g.moves, ko.Ply{Color: c, Pass: true})
	g.history.Push(ko.Entry{Fingerprint: g.board.Fingerprint(), Color: c, Pass: true})
	g.log.Debugf("move %d: %v passes", len(g.moves), c)
	return nil
}

// UndoLastMove takes back the last move, restoring any stones it captured,
// and keeps it for RedoMove.
func (g *Game) UndoLastMove() (ko.Ply, error) {
	if g.ended {
		return ko.Ply{}, fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}
	last := g.lastMove()
	if last == nil {
		return ko.Ply{}, fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrNoMoves)
	}
	undone := *last
	if !undone.Pass {
		if err := g.board.RemoveStone(undone.Vertex, undone.Captured); err != nil {
			return ko.Ply{}, fmt.Errorf("%w: undoing %v %v: %v", errs.ErrInternal, undone.Color, undone.Vertex, err)
		}
		g.prisoners[undone.Color] -= len(undone.Captured)
	}
	g.moves = g.moves[:len(g.moves)-1]
	g.history.Truncate(len(g.moves))
	g.redo = append(g.redo, undone)

	g.log.Debugf("undid move %d: %v", len(g.moves)+1, undone.Color)
	return undone, nil
}

// RedoMove replays the most recently undone move.
func (g *Game) RedoMove() (ko.Ply, error) {
	if len(g.redo) == 0 {
		return ko.Ply{}, fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrNothingToRedo)
	}
	next := g.redo[len(g.redo)-1]
	if next.Pass {
		if err := g.pass(next.Color); err != nil {
			return ko.Ply{}, err
		}
	} else if _, err := g.play(next.Vertex, next.Color); err != nil {
		return ko.Ply{}, err
	}
	g.redo = g.redo[:len(g.redo)-1]
	return *g.lastMove(), nil
}

// ApplySetup places setup stones. It is refused once a move has been
// played or the game has ended. A vertex may appear in one list only.
func (g *Game) ApplySetup(black, white, cleared []board.Vertex) error {
	if g.ended {
		return fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}
	if len(g.moves) > 0 {
		return fmt.Errorf("%w: setup after %d moves", errs.ErrInvalidState, len(g.moves))
	}

	want := make(map[board.Vertex]board.Color, len(black)+len(white)+len(cleared))
	for c, vs := range map[board.Color][]board.Vertex{board.Black: black, board.White: white, board.Empty: cleared} {
		for _, v := range vs {
			if _, err := g.board.PointAt(v); err != nil {
				return err
			}
			if prev, ok := want[v]; ok && prev != c {
				return fmt.Errorf("%w: %v is listed as both %v and %v", errs.ErrInvalidArgument, v, prev, c)
			}
			want[v] = c
		}
	}

	prior := make(map[board.Color][]board.Vertex)
	for v, c := range want {
		if old := g.board.ColorAt(v); old != c {
			prior[old] = append(prior[old], v)
		}
	}
	if err := g.recolor(cleared, black, white); err != nil {
		return err
	}
	g.setups = append(g.setups, Setup{Black: black, White: white, Cleared: cleared, prior: prior})
	g.history.Rebase(g.board.Fingerprint())
	g.redo = nil

	g.log.Infof("setup applied: %d black, %d white, %d cleared", len(black), len(white), len(cleared))
	return nil
}

// RevertSetup undoes the most recent setup.
func (g *Game) RevertSetup() error {
	if g.ended {
		return fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrGameEnded)
	}
	if len(g.moves) > 0 {
		return fmt.Errorf("%w: setup revert after %d moves", errs.ErrInvalidState, len(g.moves))
	}
	if len(g.setups) == 0 {
		return fmt.Errorf("%w: %w", errs.ErrInvalidState, errs.ErrNoSetup)
	}
	last := g.setups[len(g.setups)-1]
	if err := g.recolor(last.prior[board.Empty], last.prior[board.Black], last.prior[board.White]); err != nil {
		return err
	}
	g.setups = g.setups[:len(g.setups)-1]
	g.history.Rebase(g.board.Fingerprint())
	g.redo = nil

	g.log.Infof("setup reverted, %d setups left", len(g.setups))
	return nil
}

func (g *Game) recolor(empty, black, white []board.Vertex) error {
	for _, step := range []struct {
		vs []board.Vertex
		c  board.Color
	}{{empty, board.Empty}, {black, board.Black}, {white, board.White}} {
		if err := g.board.Recolor(step.vs, step.c); err != nil {
			return err
		}
	}
	return nil
}

// End closes the game. Nothing may be played, undone or set up afterwards.
func (g *Game) End() {
	g.ended = true
	g.redo = nil
	g.log.Infof("game ended after %d moves", len(g.moves))
}

// IsIllegal reports whether err is a refused move and, if so, why.
func IsIllegal(err error) (ko.Reason, bool) {
	var illegal *IllegalMoveError
	if errors.As(err, &illegal) {
		return illegal.Reason, true
	}
	return ko.None, false
}
