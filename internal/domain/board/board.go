// Package board keeps a goban and its partition into regions: maximal
// connected sets of empty points or of same-colored stones. Every mutation
// repairs the partition locally, around the points that changed.
package board

import (
	"fmt"
	"sort"
	"strings"

	errs "goban_rules/internal/errors"
)

type Board struct {
	size    int
	points  []point
	regions map[int]*Region
	nextID  int
	moves   int
	hash    uint64
	zobrist *Zobrist
	journal *journal
}

// New builds an empty size x size board: every point sits in one empty
// region. A nil zobrist table gets one seeded with DefaultSeed.
func New(size int, z *Zobrist) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: board size %d outside %d..%d", errs.ErrInvalidArgument, size, MinSize, MaxSize)
	}
	if z == nil {
		z = NewZobrist(size, DefaultSeed)
	}
	if z.size != size {
		return nil, fmt.Errorf("%w: zobrist table for size %d used with size %d", errs.ErrInvalidArgument, z.size, size)
	}

	b := &Board{
		size:    size,
		points:  make([]point, size*size),
		regions: make(map[int]*Region),
		zobrist: z,
	}
	linkNeighbors(b.points, size)

	all := &Region{id: 0, color: Empty, members: make(map[int]struct{}, len(b.points)), board: b}
	for i := range b.points {
		all.members[i] = struct{}{}
	}
	b.regions[all.id] = all
	b.nextID = 1
	return b, nil
}

func (b *Board) Size() int { return b.size }

// Moves counts stone placements minus stone removals.
func (b *Board) Moves() int { return b.moves }

// Fingerprint identifies the colors of all points.
func (b *Board) Fingerprint() uint64 { return b.hash }

func (b *Board) index(v Vertex) (int, error) {
	if !v.In(b.size) {
		return 0, fmt.Errorf("%w: %v is off the board", errs.ErrInvalidArgument, v)
	}
	return v.Y*b.size + v.X, nil
}

func (b *Board) PointAt(v Vertex) (Point, error) {
	i, err := b.index(v)
	if err != nil {
		return Point{}, err
	}
	return Point{vertex: v, color: b.points[i].color}, nil
}

// ColorAt panics on an off-board vertex.
func (b *Board) ColorAt(v Vertex) Color {
	i, err := b.index(v)
	if err != nil {
		panic(err)
	}
	return b.points[i].color
}

func (b *Board) Neighbors(v Vertex) ([]Vertex, error) {
	i, err := b.index(v)
	if err != nil {
		return nil, err
	}
	return b.vertices(b.points[i].neighbors), nil
}

func (b *Board) RegionOf(v Vertex) (*Region, error) {
	i, err := b.index(v)
	if err != nil {
		return nil, err
	}
	return b.regionAt(i), nil
}

func (b *Board) RegionSize(r *Region) int {
	return r.Size()
}

// LibertyCount is the number of distinct empty points next to r. It is 0
// for an empty region, whose empty neighbors are all its own members.
func (b *Board) LibertyCount(r *Region) int {
	libs := make(map[int]struct{})
	for i := range r.members {
		for _, j := range b.points[i].neighbors {
			if b.points[j].color != Empty {
				continue
			}
			if _, own := r.members[j]; own {
				continue
			}
			libs[j] = struct{}{}
		}
	}
	return len(libs)
}

func (b *Board) hasLiberty(r *Region) bool {
	for i := range r.members {
		for _, j := range b.points[i].neighbors {
			if b.points[j].color == Empty {
				return true
			}
		}
	}
	return false
}

// Regions returns the current partition ordered by region id.
func (b *Board) Regions() []*Region {
	out := make([]*Region, 0, len(b.regions))
	for _, r := range b.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// PlaceStone puts a stone of color c on the empty point v, removes every
// opposing group left without liberties and returns the captured points.
// Suicide is not rejected here.
func (b *Board) PlaceStone(v Vertex, c Color) ([]Vertex, error) {
	i, err := b.index(v)
	if err != nil {
		return nil, err
	}
	if !c.IsStone() {
		return nil, fmt.Errorf("%w: cannot place a %v stone", errs.ErrInvalidArgument, c)
	}
	if b.points[i].color != Empty {
		return nil, fmt.Errorf("%w: %v is occupied", errs.ErrInvalidState, v)
	}

	captured := b.place(i, c)
	b.setMoves(b.moves + 1)
	return b.vertices(captured), nil
}

func (b *Board) place(i int, c Color) []int {
	b.recolor([]int{i}, c)

	var captured []int
	checked := make(map[int]bool, 4)
	for _, j := range b.points[i].neighbors {
		r := b.regionAt(j)
		if r.color != c.Opponent() || checked[r.id] {
			continue
		}
		checked[r.id] = true
		if !b.hasLiberty(r) {
			captured = append(captured, b.capture(r)...)
		}
	}
	sort.Ints(captured)
	return captured
}

// capture empties a whole stone region and joins it with the empty
// regions around it.
func (b *Board) capture(r *Region) []int {
	idx := r.indices()
	for _, i := range idx {
		b.setColor(i, Empty)
	}
	b.paint(r, Empty)
	for _, i := range idx {
		for _, j := range b.points[i].neighbors {
			if b.points[j].color != Empty {
				continue
			}
			if own, other := b.regionAt(i), b.regionAt(j); own != other {
				b.merge(own, other)
			}
		}
	}
	return idx
}

// RemoveStone undoes a placement at v. restore lists the points that
// placement captured; they get the opposing color back.
func (b *Board) RemoveStone(v Vertex, restore []Vertex) error {
	i, err := b.index(v)
	if err != nil {
		return err
	}
	c := b.points[i].color
	if c == Empty {
		return fmt.Errorf("%w: no stone on %v", errs.ErrInvalidState, v)
	}
	back := make([]int, 0, len(restore))
	seen := make(map[int]bool, len(restore))
	for _, rv := range restore {
		j, err := b.index(rv)
		if err != nil {
			return err
		}
		if j == i || seen[j] || b.points[j].color != Empty {
			return fmt.Errorf("%w: cannot restore a captured stone on %v", errs.ErrInvalidState, rv)
		}
		seen[j] = true
		back = append(back, j)
	}

	b.recolor([]int{i}, Empty)
	if len(back) > 0 {
		b.recolor(back, c.Opponent())
	}
	b.setMoves(b.moves - 1)
	return nil
}

// Recolor sets every vertex in vs to c without any capture or suicide
// handling. It is meant for setup stones.
func (b *Board) Recolor(vs []Vertex, c Color) error {
	if c > White {
		return fmt.Errorf("%w: unknown color %v", errs.ErrInvalidArgument, c)
	}
	idx := make([]int, 0, len(vs))
	seen := make(map[int]bool, len(vs))
	for _, v := range vs {
		i, err := b.index(v)
		if err != nil {
			return err
		}
		if seen[i] || b.points[i].color == c {
			continue
		}
		seen[i] = true
		idx = append(idx, i)
	}
	if len(idx) > 0 {
		b.recolor(idx, c)
	}
	return nil
}

// recolor gives every point in idx the color c and repairs the partition:
// each point starts a fresh region that joins its same-colored neighbors,
// and the regions the points left are split where they came apart. No
// point in idx may already be c.
func (b *Board) recolor(idx []int, c Color) {
	left := make(map[int]*Region)
	for _, i := range idx {
		old := b.regionAt(i)
		left[old.id] = old
		b.setColor(i, c)
		b.move(i, b.newRegion(c))
	}

	for _, i := range idx {
		for _, j := range b.points[i].neighbors {
			if b.points[j].color != c {
				continue
			}
			if own, other := b.regionAt(i), b.regionAt(j); own != other {
				b.merge(own, other)
			}
		}
	}

	ids := make([]int, 0, len(left))
	for id := range left {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		old := left[id]
		var seeds []int
		for _, i := range idx {
			for _, j := range b.points[i].neighbors {
				if b.points[j].region == id {
					seeds = append(seeds, j)
				}
			}
		}
		b.split(old, seeds)
	}
}

func (b *Board) setMoves(n int) {
	old := b.moves
	b.moves = n
	b.record(func() {
		b.moves = old
	})
}

// String draws the board top row first: X black, O white, . empty.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.Rows() {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) Rows() []string {
	rows := make([]string, 0, b.size)
	for y := b.size - 1; y >= 0; y-- {
		var sb strings.Builder
		sb.Grow(b.size)
		for x := 0; x < b.size; x++ {
			switch b.points[y*b.size+x].color {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}
