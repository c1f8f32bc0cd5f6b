package board

import (
	"fmt"
	"strconv"
	"strings"

	errs "goban_rules/internal/errors"
)

// columnLetters skips I, as on a real goban.
const columnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

const (
	MinSize = 2
	MaxSize = len(columnLetters)
)

// Vertex addresses an intersection. X counts columns from the left edge and
// Y counts rows from the bottom edge, both starting at zero.
type Vertex struct {
	X int
	Y int
}

func (v Vertex) In(size int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < size && v.Y < size
}

// String renders the vertex as "A1", "T19" and so on.
func (v Vertex) String() string {
	if v.X < 0 || v.X >= len(columnLetters) || v.Y < 0 {
		return fmt.Sprintf("(%d,%d)", v.X, v.Y)
	}
	return fmt.Sprintf("%c%d", columnLetters[v.X], v.Y+1)
}

func ParseVertex(s string, size int) (Vertex, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Vertex{}, fmt.Errorf("%w: malformed vertex %q", errs.ErrInvalidArgument, s)
	}
	x := strings.IndexByte(columnLetters, s[0])
	if x < 0 {
		return Vertex{}, fmt.Errorf("%w: bad column in vertex %q", errs.ErrInvalidArgument, s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Vertex{}, fmt.Errorf("%w: bad row in vertex %q", errs.ErrInvalidArgument, s)
	}
	v := Vertex{X: x, Y: row - 1}
	if !v.In(size) {
		return Vertex{}, fmt.Errorf("%w: vertex %q is off a %dx%d board", errs.ErrInvalidArgument, s, size, size)
	}
	return v, nil
}

// ParseVertices parses every string or fails on the first bad one.
func ParseVertices(ss []string, size int) ([]Vertex, error) {
	vs := make([]Vertex, 0, len(ss))
	for _, s := range ss {
		v, err := ParseVertex(s, size)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func FormatVertices(vs []Vertex) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}
