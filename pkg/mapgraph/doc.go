// Package mapgraph derives room adjacency from a grid and links the rooms
// into a randomized tree.
//
// [Rooms] lists every room together with the rooms it touches. [Build]
// starts at a random room and walks the adjacency depth-first: each expanded
// room draws a small fan-out, connects to that many of its unvisited
// neighbours, and those become its children. Connections are mutual and no
// room appears twice.
//
// Rooms the walk does not reach are attached afterwards to a visited
// neighbour. Room adjacency over a fully assigned grid is always connected,
// even when rooms are fragmented, so the result is a single tree spanning
// every room.
// [WithDropOrphans] turns the attachment off and leaves unreached rooms out.
//
// The walk uses an explicit stack, so deep trees do not grow the goroutine
// stack.
package mapgraph
