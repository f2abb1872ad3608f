package xwsolve

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"crosswarped.com/xwsolve/internal"
	"crosswarped.com/xwsolve/pkg/primitives"
)

// newTestState wires up the working state the way Solver.run does, up
// to and excluding AC-3.
func newTestState(t testing.TB, g Grid, words []string) *searchState {
	t.Helper()
	lex, err := primitives.NewLexicon(words)
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	slots := Slots(g)
	st := &searchState{
		grid:         g,
		slots:        slots,
		neighbors:    buildConstraints(slots),
		lex:          lex,
		rng:          rand.New(rand.NewPCG(42, 1024)),
		maxSolutions: 1,
	}
	st.domains = make([][]string, len(slots))
	for i, slot := range slots {
		st.domains[i] = internal.Candidates(lex, slotPattern(g, slot))
	}
	st.assigned = make([]string, len(slots))
	return st
}

// assertArcConsistent checks that every word of every domain has, for
// each overlap with each neighbor, some supporting word in the
// neighbor's domain.
func assertArcConsistent(t *testing.T, st *searchState) {
	t.Helper()
	for a := range st.neighbors {
		for _, arc := range st.neighbors[a] {
			for _, word := range st.domains[a] {
				for _, ov := range arc.overlaps {
					supported := false
					for _, other := range st.domains[arc.neighbor] {
						if word[ov.I] == other[ov.J] {
							supported = true
							break
						}
					}
					if !supported {
						t.Errorf("%q in %s has no support in %s at overlap %+v",
							word, st.slots[a].Name, st.slots[arc.neighbor].Name, ov)
					}
				}
			}
		}
	}
}

// The across slot ends on the down slot's first letter, so words whose
// last letter no word starts with must be pruned.
var asymmetricRows = [][]string{
	{"1", ".", "2"},
	{"#", "#", "."},
	{".", ".", "."},
}

func TestAC3_PrunesUnsupported(t *testing.T) {
	st := newTestState(t, mustGrid(t, asymmetricRows), []string{"CAT", "DOG", "TAR", "RAT"})

	if err := st.runAC3(context.Background()); err != nil {
		t.Fatalf("runAC3: %v", err)
	}

	assertArcConsistent(t, st)

	// DOG ends in G and nothing starts with G.
	for _, word := range st.domains[0] {
		if word == "DOG" {
			t.Error("DOG survived revision of 1ACROSS")
		}
	}
}

func TestAC3_KeepsConsistentDomains(t *testing.T) {
	st := newTestState(t, mustGrid(t, [][]string{
		{"1", ".", "."},
		{".", "#", "."},
		{".", ".", "#"},
	}), []string{"CAT", "CAR", "TAR", "TAB"})

	if err := st.runAC3(context.Background()); err != nil {
		t.Fatalf("runAC3: %v", err)
	}

	assertArcConsistent(t, st)
	for i, domain := range st.domains {
		if len(domain) != 4 {
			t.Errorf("domain of %s = %v, want all 4 words", st.slots[i].Name, domain)
		}
	}
}

func TestAC3_WipeoutIsNotAnError(t *testing.T) {
	st := newTestState(t, mustGrid(t, asymmetricRows), []string{"CAT", "DOG"})

	var wiped string
	st.progress = func(p Progress) {
		if p.DomainWipedBy != "" {
			wiped = p.DomainWipedBy
		}
	}

	if err := st.runAC3(context.Background()); err != nil {
		t.Fatalf("runAC3: %v", err)
	}
	if wiped == "" {
		t.Error("expected a domain wipeout to be reported")
	}

	empty := false
	for _, domain := range st.domains {
		if len(domain) == 0 {
			empty = true
		}
	}
	if !empty {
		t.Error("expected some domain to be empty after wipeout")
	}
}

func TestAC3_Cancelled(t *testing.T) {
	st := newTestState(t, mustGrid(t, asymmetricRows), []string{"CAT", "DOG", "TAR", "RAT"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := st.runAC3(ctx); !errors.Is(err, ErrCancelled) {
		t.Errorf("runAC3 = %v, want ErrCancelled", err)
	}
}
