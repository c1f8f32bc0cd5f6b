// Package ko decides whether a move is legal: occupied points, suicide,
// simple ko and positional or situational superko.
package ko

import (
	"fmt"

	"goban_rules/internal/domain/board"
	errs "goban_rules/internal/errors"
)

// Ply is the last move played, as ko sees it.
type Ply struct {
	Color    board.Color
	Vertex   board.Vertex
	Pass     bool
	Captured []board.Vertex
}

// Verdict is the outcome of a legality check. Captured and Fingerprint
// describe the position the move would create; they are unset when the
// point is occupied.
type Verdict struct {
	Reason      Reason
	Captured    []board.Vertex
	Fingerprint uint64
}

func (v Verdict) Legal() bool { return v.Reason == None }

type Engine struct {
	rule Rule
}

func NewEngine(rule Rule) *Engine {
	return &Engine{rule: rule}
}

func (e *Engine) Rule() Rule { return e.rule }

// Check tells whether c may play on v. prev is the move played last, nil
// before the first move. The move is tried inside a board speculation, so
// b is left exactly as it was.
func (e *Engine) Check(b *board.Board, h *History, prev *Ply, v board.Vertex, c board.Color) (Verdict, error) {
	if b == nil || h == nil {
		return Verdict{}, fmt.Errorf("%w: legality check needs a board and a history", errs.ErrInvalidArgument)
	}
	if !c.IsStone() {
		return Verdict{}, fmt.Errorf("%w: %v cannot move", errs.ErrInvalidArgument, c)
	}
	p, err := b.PointAt(v)
	if err != nil {
		return Verdict{}, err
	}
	if p.Color() != board.Empty {
		return Verdict{Reason: Occupied}, nil
	}

	var verdict Verdict
	err = b.Speculate(func() error {
		captured, err := b.PlaceStone(v, c)
		if err != nil {
			return err
		}
		own, err := b.RegionOf(v)
		if err != nil {
			return err
		}
		verdict.Captured = captured
		verdict.Fingerprint = b.Fingerprint()
		if b.LibertyCount(own) == 0 {
			verdict.Reason = Suicide
			return nil
		}
		verdict.Reason = e.repetition(h, prev, v, c, captured, verdict.Fingerprint)
		return nil
	})
	if err != nil {
		return Verdict{}, err
	}
	return verdict, nil
}

func (e *Engine) repetition(h *History, prev *Ply, v board.Vertex, c board.Color, captured []board.Vertex, fp uint64) Reason {
	switch e.rule {
	case SimpleKo:
		if recaptures(prev, v, c, captured) {
			return SimpleKoViolation
		}
	case PositionalSuperko:
		if h.Seen(fp) {
			return SuperkoViolation
		}
	case SituationalSuperko:
		if h.SeenBy(fp, c) {
			return SuperkoViolation
		}
	case SuperkoBoth:
		if recaptures(prev, v, c, captured) {
			return SimpleKoViolation
		}
		if h.Seen(fp) {
			return SuperkoViolation
		}
	}
	return None
}

// recaptures reports the immediate ko recapture: the opponent's last move
// took exactly one stone, on v, and this move takes back exactly that
// stone. The resulting position is the one from two moves ago.
func recaptures(prev *Ply, v board.Vertex, c board.Color, captured []board.Vertex) bool {
	if len(captured) != 1 || prev == nil || prev.Pass || prev.Color != c.Opponent() {
		return false
	}
	return captured[0] == prev.Vertex && len(prev.Captured) == 1 && prev.Captured[0] == v
}
