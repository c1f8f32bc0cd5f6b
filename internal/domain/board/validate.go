package board

import (
	"fmt"

	errs "goban_rules/internal/errors"
)

// Validate checks the partition: every point is in exactly one region, each
// region is single-colored, connected and maximal, and the fingerprint
// matches the colors on the board.
func (b *Board) Validate() error {
	total := 0
	for id, r := range b.regions {
		if r.id != id {
			return fmt.Errorf("%w: region %d filed under id %d", errs.ErrInternal, r.id, id)
		}
		if r.Size() == 0 {
			return fmt.Errorf("%w: region %d is empty", errs.ErrInternal, id)
		}
		total += r.Size()
		for i := range r.members {
			if b.points[i].region != id {
				return fmt.Errorf("%w: %v listed in region %d but points to %d", errs.ErrInternal, b.vertexOf(i), id, b.points[i].region)
			}
			if b.points[i].color != r.color {
				return fmt.Errorf("%w: %v is %v inside %v region %d", errs.ErrInternal, b.vertexOf(i), b.points[i].color, r.color, id)
			}
			for _, j := range b.points[i].neighbors {
				if b.points[j].color == r.color && b.points[j].region != id {
					return fmt.Errorf("%w: %v and %v share a color but not a region", errs.ErrInternal, b.vertexOf(i), b.vertexOf(j))
				}
			}
		}
		if reached := b.reach(r); reached != r.Size() {
			return fmt.Errorf("%w: region %d is not connected (%d of %d reachable)", errs.ErrInternal, id, reached, r.Size())
		}
	}
	if total != len(b.points) {
		return fmt.Errorf("%w: regions cover %d of %d points", errs.ErrInternal, total, len(b.points))
	}
	if h := b.zobrist.hash(b.points); h != b.hash {
		return fmt.Errorf("%w: fingerprint drifted", errs.ErrInternal)
	}
	return nil
}

func (b *Board) reach(r *Region) int {
	var start int
	for i := range r.members {
		start = i
		break
	}
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range b.points[i].neighbors {
			if _, in := r.members[j]; in && !seen[j] {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	return len(seen)
}
