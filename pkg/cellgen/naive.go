package cellgen

import (
	"github.com/matzehuels/roomgrid/pkg/cell"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Locality odds for Naive: a matching neighbour token is tried 15 times out
// of 16.
const (
	localityYes = 15
	localityNo  = 1
)

// Naive deals room-id tokens to the cells in row-major order.
//
// Every room gets floor(w*h/roomCount) tokens and the remainder goes to
// uniformly chosen rooms, so the per-room cell counts match the dealt tokens
// exactly. Most of the time a cell first tries to take a token of an
// already assigned neighbour (north, then west); otherwise it draws any
// remaining token. Rooms are not guaranteed to be contiguous.
func Naive(cells []cell.Cell, width, height, roomCount int, r rng.Source, _ ...Option) error {
	if err := validate(cells, width, height, roomCount, r); err != nil {
		return err
	}

	tokens := naiveTokens(width*height, roomCount, r)

	for i := range cells {
		room := cell.Unassigned
		if rng.Weighted(r, localityYes, localityNo) {
			for _, n := range assignedNeighbors(width, i) {
				if want := cells[n].RoomID; tokens[want] > 0 {
					room = want
					break
				}
			}
		}
		if room == cell.Unassigned {
			// Drawing by remaining count is the same as popping the next
			// token of a shuffled multiset.
			room = rng.WeightedIndex(r, tokens)
		}
		tokens[room]--
		cells[i].RoomID = room
	}
	return nil
}

// naiveTokens returns the number of tokens dealt to each room.
func naiveTokens(total, roomCount int, r rng.Source) []int {
	avg := total / roomCount
	tokens := make([]int, roomCount)
	for id := range tokens {
		tokens[id] = avg
	}
	for dealt := avg * roomCount; dealt < total; dealt++ {
		tokens[r.IntN(roomCount)]++
	}
	return tokens
}

// assignedNeighbors returns the edge neighbours of cell id that precede it
// in row-major order.
func assignedNeighbors(width, id int) []int {
	out := make([]int, 0, 2)
	if id >= width {
		out = append(out, id-width)
	}
	if id%width > 0 {
		out = append(out, id-1)
	}
	return out
}
