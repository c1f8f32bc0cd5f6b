package board

import "sort"

// Region is a maximal 4-connected set of points that are all empty or all
// carry stones of one color. A *Region handed out by the board reflects the
// live partition and is only meaningful until the next mutation.
type Region struct {
	id      int
	color   Color
	members map[int]struct{}
	board   *Board
}

func (r *Region) ID() int      { return r.id }
func (r *Region) Color() Color { return r.color }
func (r *Region) Size() int    { return len(r.members) }

func (r *Region) IsStoneRegion() bool {
	return r.color.IsStone()
}

func (r *Region) Contains(v Vertex) bool {
	if !v.In(r.board.size) {
		return false
	}
	_, ok := r.members[v.Y*r.board.size+v.X]
	return ok
}

// Members returns the member vertices in board order.
func (r *Region) Members() []Vertex {
	return r.board.vertices(r.indices())
}

func (r *Region) indices() []int {
	idx := make([]int, 0, len(r.members))
	for i := range r.members {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

func (b *Board) regionAt(i int) *Region {
	return b.regions[b.points[i].region]
}

func (b *Board) newRegion(c Color) *Region {
	id := b.nextID
	r := &Region{id: id, color: c, members: make(map[int]struct{}), board: b}
	b.regions[id] = r
	b.nextID++
	b.record(func() {
		delete(b.regions, id)
		b.nextID = id
	})
	return r
}

func (b *Board) dropRegion(r *Region) {
	delete(b.regions, r.id)
	b.record(func() {
		b.regions[r.id] = r
	})
}

func (b *Board) paint(r *Region, c Color) {
	old := r.color
	r.color = c
	b.record(func() {
		r.color = old
	})
}

// move transfers point i from its current region to r.
func (b *Board) move(i int, r *Region) {
	from := b.regionAt(i)
	if from == r {
		return
	}
	delete(from.members, i)
	r.members[i] = struct{}{}
	b.points[i].region = r.id
	b.record(func() {
		delete(r.members, i)
		from.members[i] = struct{}{}
		b.points[i].region = from.id
	})
}

// merge joins two regions of the same color and returns the survivor. The
// smaller member set is moved into the larger one.
func (b *Board) merge(a, o *Region) *Region {
	if a == o {
		return a
	}
	if a.Size() < o.Size() {
		a, o = o, a
	}
	for i := range o.members {
		b.move(i, a)
	}
	b.dropRegion(o)
	return a
}

// split repairs r after some of its members left it. seeds are the remaining
// members that neighbored the departed points; every connected piece of r
// contains at least one of them.
//
// The pieces are found with one breadth-first search per seed, advanced in
// lockstep. Frontiers that meet are united; a frontier that runs dry while
// others are still open is a separate piece and is carved into a new region.
// The search ends as soon as a single open frontier remains, so a split that
// does not happen costs only the distance between the seeds.
func (b *Board) split(r *Region, seeds []int) {
	if r.Size() == 0 {
		b.dropRegion(r)
		return
	}
	seeds = uniqueInts(seeds)
	if len(seeds) < 2 {
		return
	}

	n := len(seeds)
	parent := make([]int, n)
	closed := make([]bool, n)
	frontier := make([][]int, n)
	found := make([][]int, n)
	label := make(map[int]int, 4*n)
	for k, s := range seeds {
		parent[k] = k
		frontier[k] = []int{s}
		found[k] = []int{s}
		label[s] = k
	}
	find := func(k int) int {
		for parent[k] != k {
			parent[k] = parent[parent[k]]
			k = parent[k]
		}
		return k
	}

	open := n
	for open > 1 {
		for k := 0; k < n && open > 1; k++ {
			if closed[k] || find(k) != k {
				continue
			}
			if len(frontier[k]) == 0 {
				piece := b.newRegion(r.color)
				for _, i := range found[k] {
					b.move(i, piece)
				}
				closed[k] = true
				open--
				continue
			}
			i := frontier[k][0]
			frontier[k] = frontier[k][1:]
			for _, j := range b.points[i].neighbors {
				if b.points[j].region != r.id {
					continue
				}
				l, seen := label[j]
				if !seen {
					label[j] = k
					found[k] = append(found[k], j)
					frontier[k] = append(frontier[k], j)
					continue
				}
				if root := find(l); root != k {
					parent[root] = k
					frontier[k] = append(frontier[k], frontier[root]...)
					found[k] = append(found[k], found[root]...)
					frontier[root], found[root] = nil, nil
					open--
				}
			}
		}
	}
}

func uniqueInts(in []int) []int {
	if len(in) < 2 {
		return in
	}
	seen := make(map[int]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
