package internal

import (
	"math/rand/v2"
	"slices"

	"crosswarped.com/xwsolve/pkg/primitives"
)

// Candidates returns the initial domain for a slot: the words in the
// pattern's length bucket that agree with every fixed letter. The
// returned slice is freshly allocated; callers own it.
func Candidates(lex *primitives.Lexicon, pattern primitives.Pattern) []string {
	bucket := lex.OfLength(len(pattern))
	if pattern.Free() {
		return slices.Clone(bucket)
	}

	candidates := make([]string, 0, len(bucket))
	for _, word := range bucket {
		if pattern.Matches(word) {
			candidates = append(candidates, word)
		}
	}
	return candidates
}

// Shuffle reorders words in place with a Fisher-Yates pass.
func Shuffle(words []string, rng *rand.Rand) {
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// OrderValues returns a copy of the domain ordered for search: shuffled
// first so equal scores come out in RNG-dependent order, then stably
// sorted ascending by corpus letter-frequency score.
func OrderValues(domain []string, lex *primitives.Lexicon, rng *rand.Rand) []string {
	values := slices.Clone(domain)
	Shuffle(values, rng)
	slices.SortStableFunc(values, func(a, b string) int {
		return lex.Score(a) - lex.Score(b)
	})
	return values
}
