package xwsolve

import (
	"context"
	"math/rand/v2"
	"slices"

	"crosswarped.com/xwsolve/internal"
	"crosswarped.com/xwsolve/pkg/primitives"
)

// searchState is the mutable working state of one solve. It is owned
// by a single solver invocation; nothing here is shared.
type searchState struct {
	grid      Grid
	slots     []Slot
	neighbors [][]arc
	lex       *primitives.Lexicon
	rng       *rand.Rand

	domains  [][]string
	assigned []string // "" = unassigned, indexed like slots

	// trail is the stack of pre-forward-check domain snapshots.
	// restoreTo pops back to a mark taken before an assignment.
	trail []savedDomain

	calls        uint64
	progress     func(Progress)
	maxSolutions int
	solutions    [][]string
}

type savedDomain struct {
	slot  int
	words []string
}

// search assigns slots depth-first until maxSolutions complete
// assignments have been collected or the space is exhausted. Every
// return path restores neighbor domains to their pre-call contents.
func (st *searchState) search(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	st.calls++
	if st.progress != nil && st.calls%progressInterval == 0 {
		st.progress(Progress{RecursiveCalls: st.calls})
	}

	idx := st.pickSlot()
	if idx < 0 {
		st.solutions = append(st.solutions, slices.Clone(st.assigned))
		return nil
	}

	for _, word := range internal.OrderValues(st.domains[idx], st.lex, st.rng) {
		if !st.consistent(idx, word) {
			continue
		}

		st.assigned[idx] = word
		mark := len(st.trail)

		if st.forwardCheck(idx, word) {
			if err := st.search(ctx); err != nil {
				st.restoreTo(mark)
				st.assigned[idx] = ""
				return err
			}
			if len(st.solutions) >= st.maxSolutions {
				st.restoreTo(mark)
				st.assigned[idx] = ""
				return nil
			}
		}

		st.restoreTo(mark)
		st.assigned[idx] = ""
	}
	return nil
}

// pickSlot chooses the next slot to assign: minimum remaining values,
// then maximum degree, then a uniformly random pick among what is
// left. Returns -1 when every slot is assigned.
func (st *searchState) pickSlot() int {
	type option struct {
		idx    int
		size   int
		degree int
	}
	var least int
	var opts []option
	for i := range st.slots {
		if st.assigned[i] != "" {
			continue
		}
		size := len(st.domains[i])
		if len(opts) == 0 || size < least {
			least = size
		}
		opts = append(opts, option{idx: i, size: size, degree: len(st.neighbors[i])})
	}

	if len(opts) == 0 {
		return -1
	}

	opts = slices.DeleteFunc(opts, func(o option) bool {
		return o.size != least
	})

	most := 0
	for _, o := range opts {
		if o.degree > most {
			most = o.degree
		}
	}
	opts = slices.DeleteFunc(opts, func(o option) bool {
		return o.degree != most
	})

	// Shuffles the equivalent options:
	st.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})

	return opts[0].idx
}

// consistent checks a candidate word for a slot under the current
// assignment: it must agree with the slot's pre-filled letters, match
// every assigned neighbor at every overlap, and leave each unassigned
// neighbor at least one candidate compatible with all its overlaps.
func (st *searchState) consistent(idx int, word string) bool {
	if !slotPattern(st.grid, st.slots[idx]).Matches(word) {
		return false
	}

	for _, arc := range st.neighbors[idx] {
		if assigned := st.assigned[arc.neighbor]; assigned != "" {
			for _, ov := range arc.overlaps {
				if word[ov.I] != assigned[ov.J] {
					return false
				}
			}
			continue
		}

		supported := false
		for _, candidate := range st.domains[arc.neighbor] {
			if compatible(word, candidate, arc.overlaps) {
				supported = true
				break
			}
		}
		if !supported {
			return false
		}
	}
	return true
}

// compatible reports whether the two words agree on every overlap.
func compatible(word, other string, overlaps []Overlap) bool {
	for _, ov := range overlaps {
		if word[ov.I] != other[ov.J] {
			return false
		}
	}
	return true
}

// forwardCheck narrows every unassigned neighbor's domain to the words
// compatible with the tentative assignment, snapshotting each domain
// first. Returns false if any neighbor is left empty; the caller
// restores via the trail mark either way.
func (st *searchState) forwardCheck(idx int, word string) bool {
	for _, arc := range st.neighbors[idx] {
		if st.assigned[arc.neighbor] != "" {
			continue
		}

		st.trail = append(st.trail, savedDomain{slot: arc.neighbor, words: st.domains[arc.neighbor]})

		narrowed := make([]string, 0, len(st.domains[arc.neighbor]))
		for _, candidate := range st.domains[arc.neighbor] {
			if compatible(word, candidate, arc.overlaps) {
				narrowed = append(narrowed, candidate)
			}
		}
		st.domains[arc.neighbor] = narrowed

		if len(narrowed) == 0 {
			return false
		}
	}
	return true
}

// restoreTo pops the trail back to mark, reinstating the snapshotted
// domains verbatim.
func (st *searchState) restoreTo(mark int) {
	for len(st.trail) > mark {
		top := st.trail[len(st.trail)-1]
		st.domains[top.slot] = top.words
		st.trail[len(st.trail)-1] = savedDomain{}
		st.trail = st.trail[:len(st.trail)-1]
	}
}
