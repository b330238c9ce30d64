// Package cellgen assigns cells of a grid to rooms.
//
// Two interchangeable strategies are provided:
//
//   - [Naive] deals room-id tokens to cells in row-major order, preferring a
//     token that matches an already assigned neighbour. It is fast but a room
//     may end up split into several disconnected clusters.
//   - [Growth] picks one seed cell per room and grows the rooms round-robin
//     into the free cells around them, choosing among the candidates with a
//     [PickMethod]. Rooms produced this way are contiguous.
//
// Both work in place on a row-major []cell.Cell and draw every random
// decision from the [rng.Source] they are given, so a fixed seed reproduces
// the same assignment. A failing call reports an error from
// github.com/matzehuels/roomgrid/pkg/errors and the caller must discard the
// cells.
//
// # Pick Methods
//
// Growth chooses the next cell for a room from its candidates, the free cells
// sharing an edge with the room:
//
//   - [PickRandom]: uniform choice.
//   - [PickClosest]: the candidate with the smallest total squared distance to
//     the room's cells; ties go to the first candidate found.
//   - [PickPreferCloser] (default): candidates are sorted by that score and
//     each one in turn is taken with probability 1/2.
//
// The pick method is parsed once per call with [ParsePickMethod] and resolved
// to a single picker function before growth starts.
package cellgen
