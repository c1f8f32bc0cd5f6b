package board

import (
	"math/rand"

	"github.com/bszcz/mt19937_64"
)

// DefaultSeed keeps fingerprints stable across runs unless configured.
const DefaultSeed int64 = 0x5eed_60ba

// Zobrist holds one random key per (intersection, stone color). The
// fingerprint of a position is the XOR of the keys of its stones, so it does
// not depend on the order the stones arrived in.
type Zobrist struct {
	size int
	keys []uint64
}

func NewZobrist(size int, seed int64) *Zobrist {
	if size < 0 {
		size = 0
	}
	src := mt19937_64.New()
	src.Seed(seed)
	rng := rand.New(src)

	z := &Zobrist{size: size, keys: make([]uint64, size*size*2)}
	for i := range z.keys {
		z.keys[i] = rng.Uint64()
	}
	return z
}

func (z *Zobrist) key(i int, c Color) uint64 {
	switch c {
	case Black:
		return z.keys[2*i]
	case White:
		return z.keys[2*i+1]
	}
	return 0
}

func (z *Zobrist) hash(points []point) uint64 {
	var h uint64
	for i := range points {
		h ^= z.key(i, points[i].color)
	}
	return h
}
