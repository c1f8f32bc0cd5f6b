package ko

import "goban_rules/internal/domain/board"

// Entry is the position left behind by one move.
type Entry struct {
	Fingerprint uint64
	Color       board.Color
	Pass        bool
}

type seenKey struct {
	fingerprint uint64
	color       board.Color
}

// History is the append-only log of positions, one entry per move. The base
// position (before the first move) also counts as seen for positional
// superko; nobody produced it, so situational superko ignores it.
type History struct {
	base    uint64
	entries []Entry
	seen    map[uint64]int
	seenBy  map[seenKey]int
}

func NewHistory(base uint64) *History {
	return &History{
		base:   base,
		seen:   make(map[uint64]int),
		seenBy: make(map[seenKey]int),
	}
}

func (h *History) Base() uint64 { return h.base }

// Rebase replaces the base position. Setup stones change it before play
// starts.
func (h *History) Rebase(base uint64) {
	h.base = base
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Push(e Entry) {
	h.entries = append(h.entries, e)
	h.seen[e.Fingerprint]++
	h.seenBy[seenKey{e.Fingerprint, e.Color}]++
}

// Truncate drops entries until n remain.
func (h *History) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	for len(h.entries) > n {
		e := h.entries[len(h.entries)-1]
		h.entries = h.entries[:len(h.entries)-1]
		forget(h.seen, e.Fingerprint)
		forget(h.seenBy, seenKey{e.Fingerprint, e.Color})
	}
}

func forget[K comparable](m map[K]int, k K) {
	if m[k] <= 1 {
		delete(m, k)
		return
	}
	m[k]--
}

// Seen reports whether fp is the base position or followed any move.
func (h *History) Seen(fp uint64) bool {
	return fp == h.base || h.seen[fp] > 0
}

// SeenBy reports whether fp followed a move of color c.
func (h *History) SeenBy(fp uint64, c board.Color) bool {
	return h.seenBy[seenKey{fp, c}] > 0
}

func (h *History) Last() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}
