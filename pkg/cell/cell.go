// Package cell defines the unit square of a room grid and the adjacency
// helpers shared by the generators, the grid and the graph builder.
package cell

// Unassigned is the room id of a cell no generator has touched yet.
const Unassigned = -1

// Cell is one unit square of a grid. ID is row-major: y*width + x.
type Cell struct {
	ID     int `json:"id" bson:"id" yaml:"id"`
	X      int `json:"x" bson:"x" yaml:"x"`
	Y      int `json:"y" bson:"y" yaml:"y"`
	RoomID int `json:"roomId" bson:"room_id" yaml:"roomId"`
}

// Assigned reports whether c belongs to a room.
func (c Cell) Assigned() bool { return c.RoomID >= 0 }

// NewCells returns width*height unassigned cells in row-major order.
func NewCells(width, height int) []Cell {
	if width <= 0 || height <= 0 {
		return nil
	}
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{ID: i, X: i % width, Y: i / width, RoomID: Unassigned}
	}
	return cells
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Adjacent reports whether a and b share an edge.
func Adjacent(a, b Cell) bool {
	return Manhattan(a, b) == 1
}

// SquaredDistance returns the squared euclidean distance between a and b.
func SquaredDistance(a, b Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// NeighborIDs returns the ids of the in-bounds cells sharing an edge with
// cell id, ordered north, west, east, south.
func NeighborIDs(width, height, id int) []int {
	x, y := id%width, id/width
	out := make([]int, 0, 4)
	if y > 0 {
		out = append(out, id-width)
	}
	if x > 0 {
		out = append(out, id-1)
	}
	if x < width-1 {
		out = append(out, id+1)
	}
	if y < height-1 {
		out = append(out, id+width)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
