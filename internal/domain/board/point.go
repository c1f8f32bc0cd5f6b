package board

// point is an arena slot. Its index is y*size+x.
type point struct {
	color     Color
	region    int
	neighbors []int
}

// Point is a read-only snapshot of one intersection.
type Point struct {
	vertex Vertex
	color  Color
}

func (p Point) Vertex() Vertex { return p.vertex }
func (p Point) Color() Color   { return p.color }

func (b *Board) vertexOf(i int) Vertex {
	return Vertex{X: i % b.size, Y: i / b.size}
}

func (b *Board) vertices(idx []int) []Vertex {
	vs := make([]Vertex, 0, len(idx))
	for _, i := range idx {
		vs = append(vs, b.vertexOf(i))
	}
	return vs
}

func linkNeighbors(points []point, size int) {
	for i := range points {
		x, y := i%size, i/size
		ns := make([]int, 0, 4)
		if x > 0 {
			ns = append(ns, i-1)
		}
		if x < size-1 {
			ns = append(ns, i+1)
		}
		if y > 0 {
			ns = append(ns, i-size)
		}
		if y < size-1 {
			ns = append(ns, i+size)
		}
		points[i].neighbors = ns
	}
}

// setColor changes a point's color and the fingerprint with it. Regions are
// left alone; callers repair them.
func (b *Board) setColor(i int, c Color) {
	old, oldHash := b.points[i].color, b.hash
	if old == c {
		return
	}
	b.hash ^= b.zobrist.key(i, old) ^ b.zobrist.key(i, c)
	b.points[i].color = c
	b.record(func() {
		b.points[i].color = old
		b.hash = oldHash
	})
}
