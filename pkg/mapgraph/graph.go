package mapgraph

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// DefaultFanOut lists the child counts an expanded room draws from. Earlier
// values are geometrically more likely.
var DefaultFanOut = []int{1, 2, 3}

// RoomInfo is a room with its adjacency. Neighbors holds every room sharing
// an edge with this one; Connections the subset linked in the tree. Both are
// ascending and never contain the room itself.
type RoomInfo struct {
	grid.Room
	Neighbors   []int `json:"neighbors"`
	Connections []int `json:"connections"`
}

// MapNode is one room of the tree.
type MapNode struct {
	RoomID   int        `json:"roomId"`
	Children []*MapNode `json:"children"`
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *MapNode) Size() int {
	if n == nil {
		return 0
	}
	size := 0
	n.Walk(func(*MapNode, *MapNode, int) { size++ })
	return size
}

// Walk visits the subtree depth-first in pre-order, passing each node with
// its parent (nil for n) and depth.
func (n *MapNode) Walk(fn func(node, parent *MapNode, depth int)) {
	type frame struct {
		node, parent *MapNode
		depth        int
	}
	stack := []frame{{n, nil, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.parent, f.depth)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.node, f.depth + 1})
		}
	}
}

// Graph is the result of [Build].
type Graph struct {
	Rooms []RoomInfo `json:"rooms"`
	Trees []*MapNode `json:"trees"`
}

// Root returns the first tree.
func (g *Graph) Root() *MapNode {
	if len(g.Trees) == 0 {
		return nil
	}
	return g.Trees[0]
}

// Size returns the number of rooms across all trees.
func (g *Graph) Size() int {
	n := 0
	for _, t := range g.Trees {
		n += t.Size()
	}
	return n
}

// Contains reports whether room id is part of a tree.
func (g *Graph) Contains(id int) bool {
	for _, t := range g.Trees {
		found := false
		t.Walk(func(n, _ *MapNode, _ int) {
			if n.RoomID == id {
				found = true
			}
		})
		if found {
			return true
		}
	}
	return false
}

// Room returns the adjacency info for room id.
func (g *Graph) Room(id int) (RoomInfo, bool) {
	i, ok := slices.BinarySearchFunc(g.Rooms, id, func(r RoomInfo, id int) int { return r.ID - id })
	if !ok {
		return RoomInfo{}, false
	}
	return g.Rooms[i], true
}

// Rooms computes the adjacency of every room in g, in ascending id order.
func Rooms(g *grid.Grid) []RoomInfo {
	rooms := g.Rooms()
	infos := make([]RoomInfo, len(rooms))
	for i, room := range rooms {
		touching := mapset.New[int]()
		for _, id := range room.Cells {
			for _, n := range g.Neighbors(id) {
				if n.RoomID != room.ID {
					touching.Put(n.RoomID)
				}
			}
		}
		neighbors := make([]int, 0, touching.Size())
		touching.Each(func(id int) { neighbors = append(neighbors, id) })
		slices.Sort(neighbors)
		infos[i] = RoomInfo{Room: room, Neighbors: neighbors, Connections: []int{}}
	}
	return infos
}

type config struct {
	fanOut      []int
	dropOrphans bool
}

// Option configures [Build].
type Option func(*config)

// WithFanOut replaces the fan-out values drawn for each expanded room.
// Non-positive values are ignored.
func WithFanOut(values ...int) Option {
	return func(c *config) {
		var keep []int
		for _, v := range values {
			if v > 0 {
				keep = append(keep, v)
			}
		}
		if len(keep) > 0 {
			c.fanOut = keep
		}
	}
}

// WithDropOrphans leaves rooms the walk from the root does not reach out of
// the result instead of attaching them.
func WithDropOrphans() Option {
	return func(c *config) { c.dropOrphans = true }
}

// Build links the rooms of g into a tree rooted at a random room.
func Build(g *grid.Grid, r rng.Source, opts ...Option) (*Graph, error) {
	if g == nil || g.Len() == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "grid is empty")
	}
	if r == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "random source is required")
	}
	cfg := config{fanOut: DefaultFanOut}
	for _, o := range opts {
		o(&cfg)
	}

	b := &builder{
		rooms:   Rooms(g),
		index:   map[int]int{},
		nodes:   map[int]*MapNode{},
		visited: mapset.New[int](),
		rand:    r,
		fanOut:  cfg.fanOut,
	}
	for i, room := range b.rooms {
		b.index[room.ID] = i
	}

	root := rng.Pick(r, b.rooms).ID
	trees := []*MapNode{b.grow(root)}

	// Cell adjacency over a full rectangle is connected, so the room
	// adjacency is too and some orphan always touches a visited room.
	if !cfg.dropOrphans {
		for b.visited.Size() < len(b.rooms) && b.attachOrphan() {
		}
	}

	for i := range b.rooms {
		slices.Sort(b.rooms[i].Connections)
	}
	return &Graph{Rooms: b.rooms, Trees: trees}, nil
}

type builder struct {
	rooms   []RoomInfo
	index   map[int]int
	nodes   map[int]*MapNode
	visited mapset.Set[int]
	rand    rng.Source
	fanOut  []int
}

func (b *builder) info(id int) *RoomInfo {
	return &b.rooms[b.index[id]]
}

func (b *builder) connect(a, c int) {
	ai, ci := b.info(a), b.info(c)
	if !slices.Contains(ai.Connections, c) {
		ai.Connections = append(ai.Connections, c)
	}
	if !slices.Contains(ci.Connections, a) {
		ci.Connections = append(ci.Connections, a)
	}
}

func (b *builder) unvisitedNeighbors(id int) []int {
	var out []int
	for _, n := range b.info(id).Neighbors {
		if !b.visited.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// grow marks root visited and expands the tree below it.
func (b *builder) grow(root int) *MapNode {
	node := &MapNode{RoomID: root, Children: []*MapNode{}}
	b.nodes[root] = node
	b.visited.Put(root)
	b.expandFrom(node)
	return node
}

// expandFrom walks depth-first from node. Children are marked visited as
// soon as they are connected, before any of them is expanded.
func (b *builder) expandFrom(start *MapNode) {
	stack := []*MapNode{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		want := rng.PreferEarlier(b.rand, b.fanOut)
		picked := rng.PickSet(b.rand, b.unvisitedNeighbors(node.RoomID), want)
		for _, id := range picked {
			b.connect(node.RoomID, id)
			b.visited.Put(id)
			child := &MapNode{RoomID: id, Children: []*MapNode{}}
			b.nodes[id] = child
			node.Children = append(node.Children, child)
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// attachOrphan links one unvisited room to a random visited neighbour and
// expands it. It reports false when no unvisited room touches the visited
// set, which only happens once every room is visited.
func (b *builder) attachOrphan() bool {
	for _, room := range b.rooms {
		if b.visited.Has(room.ID) {
			continue
		}
		var anchors []int
		for _, n := range room.Neighbors {
			if b.visited.Has(n) {
				anchors = append(anchors, n)
			}
		}
		if len(anchors) == 0 {
			continue
		}
		parent := b.nodes[rng.Pick(b.rand, anchors)]
		b.connect(parent.RoomID, room.ID)
		b.visited.Put(room.ID)
		child := &MapNode{RoomID: room.ID, Children: []*MapNode{}}
		b.nodes[room.ID] = child
		parent.Children = append(parent.Children, child)
		b.expandFrom(child)
		return true
	}
	return false
}
