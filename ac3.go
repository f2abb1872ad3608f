package xwsolve

import (
	"context"

	"crosswarped.com/xwsolve/pkg/primitives"
)

// runAC3 prunes every slot domain until each remaining word has, for
// each overlap with each neighbor, at least one supporting word in the
// neighbor's domain. The queue is FIFO; shrinking domain[A] re-enqueues
// every arc (X, A) with X != B. A wiped domain ends propagation early
// and is surfaced through the progress hook, but is not an error:
// search still runs afterwards.
func (st *searchState) runAC3(ctx context.Context) error {
	type directedArc struct {
		from, to int
	}

	var queue []directedArc
	for a := range st.neighbors {
		for _, arc := range st.neighbors[a] {
			queue = append(queue, directedArc{from: a, to: arc.neighbor})
		}
	}

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return ErrCancelled
		}

		next := queue[0]
		queue = queue[1:]

		if !st.revise(next.from, next.to) {
			continue
		}
		if len(st.domains[next.from]) == 0 {
			if st.progress != nil {
				st.progress(Progress{DomainWipedBy: st.slots[next.from].Name})
			}
			return nil
		}
		for _, arc := range st.neighbors[next.from] {
			if arc.neighbor == next.to {
				continue
			}
			queue = append(queue, directedArc{from: arc.neighbor, to: next.from})
		}
	}
	return nil
}

// revise shrinks domain[a] against domain[b]: a word survives iff each
// overlap index pair has some partner word in b's domain matching its
// letter. Reports whether the domain shrank.
func (st *searchState) revise(a, b int) bool {
	arc := findArc(st.neighbors, a, b)
	if arc == nil {
		return false
	}

	// One letter set per overlap: the letters present at position J
	// across b's whole domain.
	support := make([]*primitives.CharSet, len(arc.overlaps))
	for oi, ov := range arc.overlaps {
		set := primitives.LetterSet()
		for _, word := range st.domains[b] {
			set.Add(rune(word[ov.J]))
			if set.IsFull() {
				break
			}
		}
		support[oi] = set
	}

	kept := st.domains[a][:0]
	for _, word := range st.domains[a] {
		ok := true
		for oi, ov := range arc.overlaps {
			if !support[oi].Contains(rune(word[ov.I])) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, word)
		}
	}

	shrank := len(kept) < len(st.domains[a])
	st.domains[a] = kept
	return shrank
}
