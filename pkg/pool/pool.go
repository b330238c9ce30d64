// Package pool provides a shuffled multiset with constrained extraction.
//
// A [Pool] reshuffles its items through an injected [rng.Source] before every
// extraction, so extraction order carries no positional bias beyond the
// random source. Under-supply is never an error: TakeOne reports ok=false,
// TakeMany and TakeN return fewer items than asked, and callers decide
// whether a shortfall is fatal.
//
// A Pool is not safe for concurrent use.
package pool

import (
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Pool is a mutable, shuffled collection of items.
type Pool[T any] struct {
	items []T
	rand  rng.Source
	eq    func(a, b T) bool
}

// New creates a pool over a copy of items using value equality for Remove.
func New[T comparable](items []T, r rng.Source) *Pool[T] {
	return NewFunc(items, r, func(a, b T) bool { return a == b })
}

// NewFunc creates a pool over a copy of items with a caller-supplied
// equality used by Remove.
func NewFunc[T any](items []T, r rng.Source, eq func(a, b T) bool) *Pool[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &Pool[T]{items: cp, rand: r, eq: eq}
}

// UseEq replaces the equality used by Remove.
func (p *Pool[T]) UseEq(eq func(a, b T) bool) {
	p.eq = eq
}

// Add appends item.
func (p *Pool[T]) Add(item T) {
	p.items = append(p.items, item)
}

// Size returns the number of items in the pool.
func (p *Pool[T]) Size() int {
	return len(p.items)
}

// Items returns a snapshot of the current item order.
func (p *Pool[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// TakeOne reshuffles, then removes and returns the first item satisfying
// pred, or the first item when pred is nil. ok is false when the pool is
// empty or nothing matches.
func (p *Pool[T]) TakeOne(pred func(T) bool) (item T, ok bool) {
	p.shuffle()
	for i, it := range p.items {
		if pred == nil || pred(it) {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return it, true
		}
	}
	return item, false
}

// TakeMany reshuffles, then removes and returns every item satisfying pred.
func (p *Pool[T]) TakeMany(pred func(T) bool) []T {
	p.shuffle()
	var taken, rest []T
	for _, it := range p.items {
		if pred(it) {
			taken = append(taken, it)
		} else {
			rest = append(rest, it)
		}
	}
	p.items = rest
	return taken
}

// TakeN reshuffles and removes up to n items.
//
// With a nil setPred the first n shuffled items are taken. Otherwise every
// item is offered to setPred in shuffled order together with the items
// accepted so far; approved items grow the accepted set. The first n
// accepted items are returned and the surplus goes back into the pool ahead
// of the rejected ones.
func (p *Pool[T]) TakeN(n int, setPred func(item T, accepted []T) bool) []T {
	p.shuffle()
	if n < 0 {
		n = 0
	}
	if setPred == nil {
		if n > len(p.items) {
			n = len(p.items)
		}
		taken := make([]T, n)
		copy(taken, p.items[:n])
		p.items = p.items[n:]
		return taken
	}

	var accepted, rejected []T
	for _, it := range p.items {
		if setPred(it, accepted) {
			accepted = append(accepted, it)
		} else {
			rejected = append(rejected, it)
		}
	}
	if n > len(accepted) {
		n = len(accepted)
	}
	taken := accepted[:n:n]
	rest := make([]T, 0, len(accepted)-n+len(rejected))
	rest = append(rest, accepted[n:]...)
	rest = append(rest, rejected...)
	p.items = rest
	return taken
}

// Remove deletes every pool item equal to any of items.
func (p *Pool[T]) Remove(items ...T) {
	if len(items) == 0 {
		return
	}
	kept := p.items[:0]
	for _, it := range p.items {
		match := false
		for _, r := range items {
			if p.eq(it, r) {
				match = true
				break
			}
		}
		if !match {
			kept = append(kept, it)
		}
	}
	clear(p.items[len(kept):])
	p.items = kept
}

func (p *Pool[T]) shuffle() {
	rng.ShuffleInPlace(p.rand, p.items)
}
