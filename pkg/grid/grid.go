package grid

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/matzehuels/roomgrid/pkg/cell"
	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Room is a group of cells sharing a room id. Cells holds cell ids in
// ascending order.
type Room struct {
	ID    int   `json:"id"`
	Size  int   `json:"size"`
	Cells []int `json:"cells"`
}

// Grid is an immutable rectangle of cells partitioned into rooms.
type Grid struct {
	width     int
	height    int
	roomCount int
	cells     []cell.Cell

	roomsOnce sync.Once
	roomIDs   []int
}

// Options configures [New].
type Options struct {
	Width      int
	Height     int
	RoomCount  int
	Method     cellgen.Method
	PickMethod cellgen.PickMethod
	// SafetyLimit overrides the growth pass budget when positive.
	SafetyLimit int
	// Rand supplies every random decision. A nil Rand uses a freshly seeded
	// source, so the result is not reproducible.
	Rand rng.Source
}

// New generates a grid. Invalid dimensions fail before any generation work
// and a generator failure never yields a partial grid.
func New(opts Options) (*Grid, error) {
	if err := apperr.ValidateDimensions(opts.Width, opts.Height, opts.RoomCount); err != nil {
		return nil, err
	}
	r := opts.Rand
	if r == nil {
		r = rng.NewRandom()
	}
	cells := cell.NewCells(opts.Width, opts.Height)
	err := cellgen.Generate(cells, opts.Width, opts.Height, opts.RoomCount, r,
		cellgen.WithMethod(opts.Method),
		cellgen.WithPickMethod(opts.PickMethod),
		cellgen.WithSafetyLimit(opts.SafetyLimit),
	)
	if err != nil {
		return nil, err
	}
	return newGrid(opts.Width, opts.Height, cells)
}

// FromAssignment builds a grid from row-major room ids.
func FromAssignment(width, height int, roomIDs []int) (*Grid, error) {
	if err := apperr.ValidateGridSize(width, height); err != nil {
		return nil, err
	}
	if len(roomIDs) != width*height {
		return nil, apperr.New(apperr.ErrCodeInvalidInput,
			"got %d room ids for a %dx%d grid", len(roomIDs), width, height)
	}
	cells := cell.NewCells(width, height)
	for i, id := range roomIDs {
		cells[i].RoomID = id
	}
	return newGrid(width, height, cells)
}

// FromCells builds a grid from fully assigned cells. The cells are copied.
func FromCells(width, height int, cells []cell.Cell) (*Grid, error) {
	if err := apperr.ValidateGridSize(width, height); err != nil {
		return nil, err
	}
	if len(cells) != width*height {
		return nil, apperr.New(apperr.ErrCodeInvalidInput,
			"got %d cells for a %dx%d grid", len(cells), width, height)
	}
	return newGrid(width, height, slices.Clone(cells))
}

func newGrid(width, height int, cells []cell.Cell) (*Grid, error) {
	rooms := map[int]struct{}{}
	for i, c := range cells {
		if c.ID != i || c.X != i%width || c.Y != i/width {
			return nil, apperr.New(apperr.ErrCodeInvalidInput,
				"cell %d at (%d,%d) is out of row-major order", c.ID, c.X, c.Y)
		}
		if !c.Assigned() {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "cell %d has no room", c.ID)
		}
		rooms[c.RoomID] = struct{}{}
	}
	return &Grid{width: width, height: height, roomCount: len(rooms), cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// RoomCount returns the number of distinct rooms.
func (g *Grid) RoomCount() int { return g.roomCount }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells returns a copy of all cells in id order.
func (g *Grid) Cells() []cell.Cell {
	return slices.Clone(g.cells)
}

// Cell returns the cell with the given id.
func (g *Grid) Cell(id int) (cell.Cell, bool) {
	if id < 0 || id >= len(g.cells) {
		return cell.Cell{}, false
	}
	return g.cells[id], true
}

// CellAt returns the cell at column x, row y.
func (g *Grid) CellAt(x, y int) (cell.Cell, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return cell.Cell{}, false
	}
	return g.cells[y*g.width+x], true
}

// Row returns the cells of row y, or nil when y is out of range.
func (g *Grid) Row(y int) []cell.Cell {
	if y < 0 || y >= g.height {
		return nil
	}
	return slices.Clone(g.cells[y*g.width : (y+1)*g.width])
}

// Column returns the cells of column x, or nil when x is out of range.
func (g *Grid) Column(x int) []cell.Cell {
	if x < 0 || x >= g.width {
		return nil
	}
	out := make([]cell.Cell, g.height)
	for y := range out {
		out[y] = g.cells[y*g.width+x]
	}
	return out
}

// Neighbors returns the cells sharing an edge with cell id.
func (g *Grid) Neighbors(id int) []cell.Cell {
	if id < 0 || id >= len(g.cells) {
		return nil
	}
	ids := cell.NeighborIDs(g.width, g.height, id)
	out := make([]cell.Cell, len(ids))
	for i, n := range ids {
		out[i] = g.cells[n]
	}
	return out
}

// ListRooms returns the distinct room ids in ascending order. The list is
// computed once per grid.
func (g *Grid) ListRooms() []int {
	g.roomsOnce.Do(func() {
		seen := make(map[int]struct{}, g.roomCount)
		for _, c := range g.cells {
			if _, ok := seen[c.RoomID]; !ok {
				seen[c.RoomID] = struct{}{}
				g.roomIDs = append(g.roomIDs, c.RoomID)
			}
		}
		slices.Sort(g.roomIDs)
	})
	return slices.Clone(g.roomIDs)
}

// FindRoom returns the room with the given id.
func (g *Grid) FindRoom(id int) (Room, bool) {
	room := Room{ID: id}
	for _, c := range g.cells {
		if c.RoomID == id {
			room.Cells = append(room.Cells, c.ID)
		}
	}
	room.Size = len(room.Cells)
	return room, room.Size > 0
}

// Rooms returns every room in ascending id order.
func (g *Grid) Rooms() []Room {
	index := map[int]int{}
	var rooms []Room
	for _, id := range g.ListRooms() {
		index[id] = len(rooms)
		rooms = append(rooms, Room{ID: id})
	}
	for _, c := range g.cells {
		r := &rooms[index[c.RoomID]]
		r.Cells = append(r.Cells, c.ID)
		r.Size++
	}
	return rooms
}

// RoomIDs returns the room id of every cell in row-major order.
func (g *Grid) RoomIDs() []int {
	out := make([]int, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.RoomID
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:     g.width,
		height:    g.height,
		roomCount: g.roomCount,
		cells:     slices.Clone(g.cells),
	}
}

// Equal reports whether g and o have the same size and assignment.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.width == o.width && g.height == o.height && slices.Equal(g.cells, o.cells)
}

// Data is the plain serialisable form of a Grid.
type Data struct {
	Width     int         `json:"width" bson:"width"`
	Height    int         `json:"height" bson:"height"`
	RoomCount int         `json:"roomCount" bson:"room_count"`
	Cells     []cell.Cell `json:"cells" bson:"cells"`
}

// Data returns the serialisable form of g.
func (g *Grid) Data() Data {
	return Data{Width: g.width, Height: g.height, RoomCount: g.roomCount, Cells: g.Cells()}
}

// FromData validates d and builds the grid it describes.
func FromData(d Data) (*Grid, error) {
	g, err := FromCells(d.Width, d.Height, d.Cells)
	if err != nil {
		return nil, err
	}
	if d.RoomCount != 0 && d.RoomCount != g.roomCount {
		return nil, apperr.New(apperr.ErrCodeInvalidInput,
			"roomCount %d does not match %d distinct rooms", d.RoomCount, g.roomCount)
	}
	return g, nil
}

// MarshalJSON implements json.Marshaler.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(Data{g.width, g.height, g.roomCount, g.cells})
}

// UnmarshalJSON implements json.Unmarshaler. The cells are validated the
// same way as [FromCells].
func (g *Grid) UnmarshalJSON(b []byte) error {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode grid")
	}
	parsed, err := FromData(d)
	if err != nil {
		return err
	}
	g.width, g.height, g.roomCount, g.cells = parsed.width, parsed.height, parsed.roomCount, parsed.cells
	g.roomsOnce = sync.Once{}
	g.roomIDs = nil
	return nil
}
