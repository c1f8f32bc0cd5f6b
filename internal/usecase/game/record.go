package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"goban_rules/internal/domain/board"
	"goban_rules/internal/domain/game"
	"goban_rules/internal/domain/ko"
	errs "goban_rules/internal/errors"
)

// Record converts the game to its stored form.
func (g *Game) Record(id string, createdAt time.Time) game.Record {
	rec := game.Record{
		ID:        id,
		BoardSize: g.board.Size(),
		KoRule:    g.Rule().String(),
		Moves:     make([]game.Move, 0, len(g.moves)),
		Status:    game.StatusActive,
		CreatedAt: createdAt,
	}
	for _, s := range g.setups {
		rec.Setups = append(rec.Setups, game.Setup{
			Black:   board.FormatVertices(s.Black),
			White:   board.FormatVertices(s.White),
			Cleared: board.FormatVertices(s.Cleared),
		})
	}
	for _, p := range g.moves {
		rec.Moves = append(rec.Moves, plyToMove(p))
	}
	if g.ended {
		rec.Status = game.StatusCompleted
	}
	return rec
}

// Restore rebuilds a game by replaying the setups and moves of rec through
// the ordinary operations, so a record holding an illegal move is refused.
func Restore(rec game.Record, seed int64, log *zap.SugaredLogger) (*Game, error) {
	rule, err := ko.ParseRule(rec.KoRule)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptRecord, err)
	}
	g, err := NewGame(Options{Size: rec.BoardSize, Rule: rule, Seed: seed}, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptRecord, err)
	}

	size := rec.BoardSize
	for i, s := range rec.Setups {
		black, err := board.ParseVertices(s.Black, size)
		if err != nil {
			return nil, fmt.Errorf("%w: setup %d: %w", errs.ErrCorruptRecord, i, err)
		}
		white, err := board.ParseVertices(s.White, size)
		if err != nil {
			return nil, fmt.Errorf("%w: setup %d: %w", errs.ErrCorruptRecord, i, err)
		}
		cleared, err := board.ParseVertices(s.Cleared, size)
		if err != nil {
			return nil, fmt.Errorf("%w: setup %d: %w", errs.ErrCorruptRecord, i, err)
		}
		if err := g.ApplySetup(black, white, cleared); err != nil {
			return nil, fmt.Errorf("%w: setup %d: %w", errs.ErrCorruptRecord, i, err)
		}
	}

	for i, m := range rec.Moves {
		c, v, err := ParseMove(m, size)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", errs.ErrCorruptRecord, i+1, err)
		}
		if m.IsPass() {
			err = g.Pass(c)
		} else {
			_, err = g.ApplyMove(v, c)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", errs.ErrCorruptRecord, i+1, err)
		}
	}

	if rec.Status == game.StatusCompleted {
		g.End()
	}
	return g, nil
}

// ParseMove reads the color and, unless m is a pass, the vertex of m.
func ParseMove(m game.Move, size int) (board.Color, board.Vertex, error) {
	c, err := board.ParseColor(m.Color)
	if err != nil {
		return board.Empty, board.Vertex{}, err
	}
	if m.IsPass() {
		return c, board.Vertex{}, nil
	}
	v, err := board.ParseVertex(m.Coordinates, size)
	if err != nil {
		return board.Empty, board.Vertex{}, err
	}
	return c, v, nil
}

func plyToMove(p ko.Ply) game.Move {
	m := game.Move{Color: p.Color.Short()}
	if !p.Pass {
		m.Coordinates = p.Vertex.String()
	}
	return m
}
