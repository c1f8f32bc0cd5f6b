package board

// journal holds the inverse of every mutation made while a speculation is
// open. Entries are replayed last-to-first on rollback.
type journal struct {
	undo []func()
}

func (b *Board) record(fn func()) {
	if b.journal != nil {
		b.journal.undo = append(b.journal.undo, fn)
	}
}

// Speculate runs fn against the board and then rolls back every change fn
// made, whatever way fn exits (including a panic). Speculations nest. The
// error returned is fn's.
func (b *Board) Speculate(fn func() error) error {
	outer := b.journal == nil
	if outer {
		b.journal = &journal{}
	}
	mark := len(b.journal.undo)
	defer func() {
		j := b.journal
		for i := len(j.undo) - 1; i >= mark; i-- {
			j.undo[i]()
		}
		j.undo = j.undo[:mark]
		if outer {
			b.journal = nil
		}
	}()
	return fn()
}

// Speculating reports whether a speculation is open.
func (b *Board) Speculating() bool {
	return b.journal != nil
}
