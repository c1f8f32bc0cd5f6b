package board

import (
	"fmt"
	"strings"

	errs "goban_rules/internal/errors"
)

// Color is the state of an intersection.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) IsStone() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Short returns the record form of a stone color: "b" or "w".
func (c Color) Short() string {
	switch c {
	case Black:
		return "b"
	case White:
		return "w"
	}
	return ""
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return Empty, fmt.Errorf("%w: unknown color %q", errs.ErrInvalidArgument, s)
}
