package xwsolve

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"crosswarped.com/xwsolve/internal"
	"crosswarped.com/xwsolve/pkg/primitives"
)

var (
	// ErrNoSlots reports a valid grid that yields no slot of length >= 2.
	ErrNoSlots = errors.New("grid has no slots")
	// ErrNoSolution reports an exhausted search with no complete assignment.
	ErrNoSolution = errors.New("no solution")
	// ErrCancelled reports cooperative cancellation via the context.
	ErrCancelled = errors.New("solve cancelled")
	// ErrBusy reports a second Solve entering while one is in progress.
	ErrBusy = errors.New("solver is busy")
)

// DefaultMaxSolutions bounds SolveAll when Config.MaxSolutions is zero.
const DefaultMaxSolutions = 100

// progressInterval is how many recursive calls pass between progress
// callbacks.
const progressInterval = 256

// Progress is delivered synchronously from the solver's own task.
// Callbacks must not reenter the solver.
type Progress struct {
	RecursiveCalls uint64
	// DomainWipedBy names the slot whose domain AC-3 emptied, if any.
	// The solve still proceeds into search.
	DomainWipedBy string
}

// Config carries the per-solve options.
type Config struct {
	// MaxSolutions bounds SolveAll. Zero means DefaultMaxSolutions.
	// Solve always stops at the first solution.
	MaxSolutions int
	// Seed fixes the search RNG. Nil seeds from OS entropy.
	Seed *uint64
	// Progress, when set, is invoked synchronously at a fixed cadence
	// of recursive calls and on AC-3 domain wipeout.
	Progress func(Progress)
}

// Stats describes how much work a solve did.
type Stats struct {
	RecursiveCalls uint64        `json:"recursive_calls"`
	Elapsed        time.Duration `json:"elapsed"`
}

// A Solver finds word assignments for crossword grids against one
// shared lexicon. A single Solver runs one solve at a time and fails
// fast with ErrBusy on concurrent entry; independent Solvers may run
// in parallel against the same lexicon.
type Solver struct {
	lex       *primitives.Lexicon
	busy      atomic.Bool
	lastStats Stats
}

func New(lex *primitives.Lexicon) *Solver {
	return &Solver{lex: lex}
}

// Stats returns the work done by the most recent solve attempt on this
// instance, including attempts that ended in ErrNoSolution or
// ErrCancelled. Valid once that call has returned.
func (s *Solver) Stats() Stats {
	return s.lastStats
}

// Solve finds the first complete assignment for the grid. It returns
// ErrNoSlots, ErrNoSolution, ErrCancelled, or ErrBusy when no solution
// is produced; invalid grids are rejected earlier, at construction.
func (s *Solver) Solve(ctx context.Context, g Grid, cfg Config) (*Solution, error) {
	solutions, err := s.run(ctx, g, cfg, 1)
	if err != nil {
		return nil, err
	}
	return solutions[0], nil
}

// SolveAll collects solutions until the search space is exhausted or
// MaxSolutions have been found.
func (s *Solver) SolveAll(ctx context.Context, g Grid, cfg Config) ([]*Solution, error) {
	max := cfg.MaxSolutions
	if max <= 0 {
		max = DefaultMaxSolutions
	}
	return s.run(ctx, g, cfg, max)
}

func (s *Solver) run(ctx context.Context, g Grid, cfg Config, maxSolutions int) ([]*Solution, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	start := time.Now()

	slots := Slots(g)
	if len(slots) == 0 {
		s.lastStats = Stats{Elapsed: time.Since(start)}
		return nil, ErrNoSlots
	}

	st := &searchState{
		grid:         g,
		slots:        slots,
		neighbors:    buildConstraints(slots),
		lex:          s.lex,
		rng:          newRNG(cfg.Seed),
		progress:     cfg.Progress,
		maxSolutions: maxSolutions,
	}

	st.domains = make([][]string, len(slots))
	for i, slot := range slots {
		st.domains[i] = internal.Candidates(s.lex, slotPattern(g, slot))
	}
	st.assigned = make([]string, len(slots))

	// AC-3 runs to completion before search. A wiped domain is
	// informational: search still runs and reports no-solution itself.
	if err := st.runAC3(ctx); err != nil {
		s.lastStats = Stats{Elapsed: time.Since(start)}
		return nil, err
	}

	for i := range st.domains {
		internal.Shuffle(st.domains[i], st.rng)
	}

	searchErr := st.search(ctx)
	stats := Stats{RecursiveCalls: st.calls, Elapsed: time.Since(start)}
	s.lastStats = stats
	if searchErr != nil {
		return nil, searchErr
	}
	if len(st.solutions) == 0 {
		return nil, ErrNoSolution
	}

	solutions := make([]*Solution, len(st.solutions))
	for i, assigned := range st.solutions {
		solutions[i] = newSolution(g, slots, assigned, stats)
	}
	return solutions, nil
}

// newRNG builds the search RNG: PCG from the given seed, or from the
// OS entropy pool when none is given.
func newRNG(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	}
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the clock rather than abort the solve.
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	))
}
