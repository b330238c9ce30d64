package cellgen

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/roomgrid/pkg/cell"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pool"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// maxSeedNeighbors is the number of accepted seeds that makes a seed
// candidate count as enclosed.
const maxSeedNeighbors = 4

// candidate is the growth view of a free cell.
type candidate = cell.Cell

// picker chooses the next cell for a room. cands is never empty.
type picker func(r rng.Source, cands []candidate, room *growingRoom) candidate

// growingRoom tracks a room's cells, its frontier and the running sums used
// to score candidates by total squared distance in constant time.
type growingRoom struct {
	id    int
	cells []cell.Cell
	sumX  int
	sumY  int
	sumSq int

	// frontier holds every cell found next to the room, in discovery order.
	// Cells taken since are dropped lazily by candidates.
	frontier []candidate
	queued   mapset.Set[int]
}

func newGrowingRoom(id int) *growingRoom {
	return &growingRoom{id: id, queued: mapset.New[int]()}
}

func (g *growingRoom) add(c cell.Cell) {
	g.cells = append(g.cells, c)
	g.sumX += c.X
	g.sumY += c.Y
	g.sumSq += c.X*c.X + c.Y*c.Y
}

// grow adds c to the room and queues its free neighbours. A cell never
// becomes free again, so each one is queued at most once.
func (g *growingRoom) grow(c cell.Cell, cells []cell.Cell, width, height int, isFree []bool) {
	g.add(c)
	for _, n := range cell.NeighborIDs(width, height, c.ID) {
		if isFree[n] && !g.queued.Has(n) {
			g.queued.Put(n)
			g.frontier = append(g.frontier, cells[n])
		}
	}
}

// candidates returns the free cells sharing an edge with the room, in order
// of discovery, and forgets the ones other rooms have taken.
func (g *growingRoom) candidates(isFree []bool) []candidate {
	g.frontier = slices.DeleteFunc(g.frontier, func(c candidate) bool { return !isFree[c.ID] })
	return g.frontier
}

// score returns the sum of squared distances from c to every room cell.
func (g *growingRoom) score(c cell.Cell) int {
	n := len(g.cells)
	return n*(c.X*c.X+c.Y*c.Y) - 2*(c.X*g.sumX+c.Y*g.sumY) + g.sumSq
}

// Growth grows roomCount contiguous rooms from randomly chosen seed cells.
//
// Seeds are drawn from a pool of all cells, rejecting a seed that touches
// four or more seeds already accepted. Rooms then take turns claiming one
// free cell adjacent to them, chosen by the configured [PickMethod], until
// no free cell is left. It fails with INFEASIBLE when not enough seeds can
// be placed and with ITERATION_LIMIT when the pass budget runs out first.
func Growth(cells []cell.Cell, width, height, roomCount int, r rng.Source, opts ...Option) error {
	if err := validate(cells, width, height, roomCount, r); err != nil {
		return err
	}
	cfg := newConfig(opts)
	pick := cfg.pick.picker()

	seedPool := pool.NewFunc(cells, r, func(a, b candidate) bool { return a.ID == b.ID })
	seeds := seedPool.TakeN(roomCount, func(c candidate, accepted []candidate) bool {
		touching := 0
		for _, a := range accepted {
			if cell.Adjacent(a, c) {
				touching++
			}
		}
		return touching < maxSeedNeighbors
	})
	if len(seeds) < roomCount {
		return apperr.New(apperr.ErrCodeInfeasible,
			"found %d of %d non-enclosed seed cells", len(seeds), roomCount)
	}

	isFree := make([]bool, len(cells))
	for i := range isFree {
		isFree[i] = true
	}
	for _, s := range seeds {
		isFree[s.ID] = false
	}
	rooms := make([]*growingRoom, roomCount)
	for i, s := range seeds {
		rooms[i] = newGrowingRoom(i)
		rooms[i].grow(s, cells, width, height, isFree)
	}
	// The pool has served seed selection; a counter tracks the rest.
	remaining := len(cells) - len(seeds)

	for pass := 0; remaining > 0; pass++ {
		if pass >= cfg.safetyLimit {
			return apperr.New(apperr.ErrCodeIterationLimit,
				"%d cells still free after %d growth passes", remaining, cfg.safetyLimit)
		}
		grew := false
		for _, room := range rooms {
			if remaining == 0 {
				break
			}
			cands := room.candidates(isFree)
			if len(cands) == 0 {
				continue
			}
			next := pick(r, cands, room)
			isFree[next.ID] = false
			remaining--
			room.grow(next, cells, width, height, isFree)
			grew = true
		}
		if !grew {
			return apperr.New(apperr.ErrCodeIterationLimit,
				"%d cells unreachable by any room after %d passes", remaining, pass+1)
		}
	}

	for _, room := range rooms {
		for _, c := range room.cells {
			cells[c.ID].RoomID = room.id
		}
	}
	return nil
}

func (m PickMethod) picker() picker {
	switch m {
	case PickRandom:
		return pickRandom
	case PickClosest:
		return pickClosest
	default:
		return pickPreferCloser
	}
}

func pickRandom(r rng.Source, cands []candidate, _ *growingRoom) candidate {
	return rng.Pick(r, cands)
}

func pickClosest(_ rng.Source, cands []candidate, room *growingRoom) candidate {
	best, bestScore := cands[0], room.score(cands[0])
	for _, c := range cands[1:] {
		if s := room.score(c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

func pickPreferCloser(r rng.Source, cands []candidate, room *growingRoom) candidate {
	type scored struct {
		c     candidate
		score int
	}
	ranked := make([]scored, len(cands))
	for i, c := range cands {
		ranked[i] = scored{c, room.score(c)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int { return a.score - b.score })
	return rng.PreferEarlier(r, ranked).c
}
