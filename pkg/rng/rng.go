package rng

import (
	"math/rand/v2"
)

// Source is the randomness contract the generators, the pool and the graph
// builder depend on.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// Rand is a seeded PCG generator.
type Rand struct {
	seed uint64
	r    *rand.Rand
}

// New creates a deterministic generator for seed.
func New(seed uint64) *Rand {
	return &Rand{seed: seed, r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom creates a generator seeded from the runtime's random source.
// The chosen seed is available through [Rand.Seed] so a run can be replayed.
func NewRandom() *Rand {
	return New(rand.Uint64())
}

// Seed returns the seed r was created with.
func (r *Rand) Seed() uint64 { return r.seed }

// IntN returns a uniform int in [0, n).
func (r *Rand) IntN(n int) int { return r.r.IntN(n) }

// Float64 returns a uniform float in [0.0, 1.0).
func (r *Rand) Float64() float64 { return r.r.Float64() }

var _ Source = (*Rand)(nil)

// Bool returns true with probability 1/2.
func Bool(s Source) bool {
	return s.IntN(2) == 1
}

// Natural returns a uniform int in [lo, hi]. The bounds are swapped if
// needed.
func Natural(s Source, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + s.IntN(hi-lo+1)
}

// WeightedIndex returns an index into weights chosen with probability
// proportional to its weight. Non-positive weights are never chosen. It
// returns -1 when no weight is positive.
func WeightedIndex(s Source, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := s.IntN(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Weighted reports true with odds yes:no.
func Weighted(s Source, yes, no int) bool {
	return WeightedIndex(s, []int{yes, no}) == 0
}

// Pick returns a uniformly chosen element of items. It panics on an empty
// slice.
func Pick[T any](s Source, items []T) T {
	return items[s.IntN(len(items))]
}

// ShuffleInPlace permutes items with a Fisher-Yates shuffle.
func ShuffleInPlace[T any](s Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](s Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	ShuffleInPlace(s, out)
	return out
}

// PickSet returns min(n, len(items)) distinct elements of items in random
// order.
func PickSet[T any](s Source, items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	out := Shuffle(s, items)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// PreferEarlier walks items in order and takes each one with probability
// 1/2; the last item is taken if none before it was. Earlier entries are
// therefore geometrically more likely. It panics on an empty slice.
func PreferEarlier[T any](s Source, items []T) T {
	for i := 0; i < len(items)-1; i++ {
		if Bool(s) {
			return items[i]
		}
	}
	return items[len(items)-1]
}
