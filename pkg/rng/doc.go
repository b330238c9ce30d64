// Package rng provides the deterministic random source used by every
// randomized step of map generation.
//
// All randomness in roomgrid flows through a [Source]. A [Rand] built with
// [New] and a fixed seed reproduces the same sequence of draws, so two
// generation calls with identical parameters and seeds produce identical
// grids. There is no package-level generator: callers create one [Rand] per
// generation call and pass it down explicitly.
//
// A [Rand] is not safe for concurrent use.
//
// # Helpers
//
// Generic helpers operate on any [Source]:
//
//	r := rng.New(12345)
//	room := rng.Pick(r, rooms)
//	order := rng.Shuffle(r, cells)
//	first := rng.PreferEarlier(r, sorted) // 1/2, 1/4, 1/8, ...
package rng
