package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/roomgrid/pkg/rng"
)

func newPool() *Pool[int] {
	return New([]int{1, 2, 3, 4}, rng.New(42))
}

func isEven(n int) bool { return n%2 == 0 }

func TestSize(t *testing.T) {
	p := newPool()
	assert.Equal(t, 4, p.Size())
	p.Add(5)
	assert.Equal(t, 5, p.Size())
}

func TestNewCopiesItems(t *testing.T) {
	items := []int{1, 2, 3}
	p := New(items, rng.New(1))
	p.TakeOne(nil)
	assert.Equal(t, []int{1, 2, 3}, items)
}

func TestTakeOne(t *testing.T) {
	p := newPool()
	seen := map[int]bool{}
	for i := 0; i < 4; i++ {
		v, ok := p.TakeOne(nil)
		require.True(t, ok)
		seen[v] = true
	}
	assert.Len(t, seen, 4)
	_, ok := p.TakeOne(nil)
	assert.False(t, ok)
}

func TestTakeOnePredicate(t *testing.T) {
	p := newPool()
	for i := 0; i < 2; i++ {
		v, ok := p.TakeOne(isEven)
		require.True(t, ok)
		assert.True(t, isEven(v))
	}
	_, ok := p.TakeOne(isEven)
	assert.False(t, ok)
	assert.Equal(t, 2, p.Size())
}

func TestTakeMany(t *testing.T) {
	p := newPool()
	got := p.TakeMany(isEven)
	assert.ElementsMatch(t, []int{2, 4}, got)
	assert.Equal(t, 2, p.Size())
}

func TestTakeN(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pred     func(int, []int) bool
		wantLen  int
		wantSize int
	}{
		{"plain", 3, nil, 3, 1},
		{"more than size", 10, nil, 4, 0},
		{"zero", 0, nil, 0, 4},
		{"item predicate", 3, func(n int, _ []int) bool { return isEven(n) }, 2, 2},
		{"set predicate", 5, func(_ int, set []int) bool { return len(set) < 3 }, 3, 1},
		{"surplus accepted returned", 1, func(n int, _ []int) bool { return isEven(n) }, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool()
			before := p.Size()
			got := p.TakeN(tt.n, tt.pred)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantSize, p.Size())
			assert.Equal(t, before-len(got), p.Size(), "size must drop by exactly the returned count")
		})
	}
}

func TestTakeNSetPredicateSeesAccepted(t *testing.T) {
	p := New([]int{1, 2, 3, 4, 5, 6, 7, 8}, rng.New(9))
	// reject anything within 1 of an accepted value
	got := p.TakeN(8, func(n int, accepted []int) bool {
		for _, a := range accepted {
			if n-a <= 1 && a-n <= 1 {
				return false
			}
		}
		return true
	})
	for i := range got {
		for j := range got {
			if i != j {
				d := got[i] - got[j]
				assert.False(t, d >= -1 && d <= 1, "adjacent values %d and %d accepted", got[i], got[j])
			}
		}
	}
	assert.Equal(t, 8-len(got), p.Size())
}

func TestRemove(t *testing.T) {
	p := newPool()
	p.Remove(2, 3, 99)
	assert.ElementsMatch(t, []int{1, 4}, p.Items())
}

func TestRemoveCustomEquality(t *testing.T) {
	type item struct {
		id   int
		name string
	}
	p := NewFunc([]item{{1, "a"}, {2, "b"}, {3, "c"}}, rng.New(3), nil)
	p.UseEq(func(a, b item) bool { return a.id == b.id })
	p.Remove(item{id: 2})
	require.Equal(t, 2, p.Size())
	for _, it := range p.Items() {
		assert.NotEqual(t, 2, it.id)
	}
}

func TestDeterministic(t *testing.T) {
	a := New([]int{1, 2, 3, 4, 5, 6}, rng.New(77))
	b := New([]int{1, 2, 3, 4, 5, 6}, rng.New(77))
	assert.Equal(t, a.TakeN(3, nil), b.TakeN(3, nil))
	assert.Equal(t, a.Items(), b.Items())
}
