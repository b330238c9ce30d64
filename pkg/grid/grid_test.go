package grid

import (
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

func TestNew(t *testing.T) {
	sizes := []struct{ w, h, rooms int }{
		{5, 5, 4}, {10, 5, 4}, {5, 10, 4}, {10, 10, 4},
		{5, 5, 16}, {10, 5, 16}, {5, 10, 16}, {10, 10, 16},
	}
	for _, m := range cellgen.Methods {
		for _, sz := range sizes {
			t.Run(fmt.Sprintf("%s/%dx%d/%d", m, sz.w, sz.h, sz.rooms), func(t *testing.T) {
				g, err := New(Options{Width: sz.w, Height: sz.h, RoomCount: sz.rooms, Method: m, Rand: rng.New(12345)})
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				cells := g.Cells()
				if len(cells) != sz.w*sz.h {
					t.Fatalf("len(cells) = %d, want %d", len(cells), sz.w*sz.h)
				}
				for i, c := range cells {
					if c.ID != i {
						t.Errorf("cells[%d].ID = %d", i, c.ID)
					}
				}
				if got := len(g.ListRooms()); got != sz.rooms {
					t.Errorf("len(ListRooms()) = %d, want %d", got, sz.rooms)
				}
				if g.RoomCount() != sz.rooms {
					t.Errorf("RoomCount() = %d, want %d", g.RoomCount(), sz.rooms)
				}
			})
		}
	}
}

func TestNewSeeded(t *testing.T) {
	opts := func(seed uint64) Options {
		return Options{Width: 12, Height: 9, RoomCount: 7, PickMethod: cellgen.PickPreferCloser, Rand: rng.New(seed)}
	}
	a, err := New(opts(2024))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(opts(2024))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("grids with the same seed differ")
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []Options{
		{Width: 0, Height: 3, RoomCount: 1},
		{Width: 3, Height: 0, RoomCount: 1},
		{Width: 3, Height: 3, RoomCount: 0},
		{Width: 3, Height: 3, RoomCount: 10},
		{Width: 1<<62 + 1, Height: 4, RoomCount: 2},
	}
	for _, o := range tests {
		if _, err := New(o); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
			t.Errorf("New(%+v) error = %v, want INVALID_INPUT", o, err)
		}
	}
}

func sample(t *testing.T) *Grid {
	t.Helper()
	g, err := FromAssignment(3, 3, []int{0, 0, 0, 1, 1, 1, 2, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFromAssignment(t *testing.T) {
	g := sample(t)
	if g.Width() != 3 || g.Height() != 3 || g.RoomCount() != 3 || g.Len() != 9 {
		t.Fatalf("unexpected grid %dx%d rooms=%d", g.Width(), g.Height(), g.RoomCount())
	}

	bad := []struct {
		name string
		w, h int
		ids  []int
	}{
		{"short", 3, 3, []int{0, 0}},
		{"unassigned", 2, 1, []int{0, -1}},
		{"zero width", 0, 1, nil},
		{"size overflows", 1<<62 + 1, 4, []int{0, 0, 1, 1}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromAssignment(tt.w, tt.h, tt.ids); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	g := sample(t)

	c, ok := g.CellAt(2, 1)
	if !ok || c.ID != 5 || c.RoomID != 1 {
		t.Errorf("CellAt(2, 1) = %+v, %v", c, ok)
	}
	if _, ok := g.CellAt(3, 0); ok {
		t.Error("CellAt(3, 0) should be out of range")
	}

	row := g.Row(2)
	if len(row) != 3 || row[0].ID != 6 || row[2].ID != 8 {
		t.Errorf("Row(2) = %+v", row)
	}
	if g.Row(5) != nil {
		t.Error("Row(5) should be nil")
	}

	col := g.Column(1)
	if len(col) != 3 || col[0].ID != 1 || col[1].ID != 4 || col[2].ID != 7 {
		t.Errorf("Column(1) = %+v", col)
	}
	if g.Column(-1) != nil {
		t.Error("Column(-1) should be nil")
	}

	var ids []int
	for _, n := range g.Neighbors(4) {
		ids = append(ids, n.ID)
	}
	if !slices.Equal(ids, []int{1, 3, 5, 7}) {
		t.Errorf("Neighbors(4) = %v", ids)
	}
}

func TestRooms(t *testing.T) {
	g, err := FromAssignment(3, 2, []int{7, 2, 2, 7, 7, 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.ListRooms(); !slices.Equal(got, []int{2, 7}) {
		t.Errorf("ListRooms() = %v", got)
	}
	room, ok := g.FindRoom(7)
	if !ok || room.Size != 3 || !slices.Equal(room.Cells, []int{0, 3, 4}) {
		t.Errorf("FindRoom(7) = %+v, %v", room, ok)
	}
	if _, ok := g.FindRoom(3); ok {
		t.Error("FindRoom(3) should not exist")
	}
	rooms := g.Rooms()
	if len(rooms) != 2 || rooms[0].ID != 2 || !slices.Equal(rooms[0].Cells, []int{1, 2, 5}) {
		t.Errorf("Rooms() = %+v", rooms)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	g := sample(t)
	cells := g.Cells()
	cells[0].RoomID = 99
	row := g.Row(0)
	row[1].RoomID = 99
	ids := g.ListRooms()
	ids[0] = 99
	if c, _ := g.Cell(0); c.RoomID != 0 {
		t.Error("Cells() aliases the grid")
	}
	if c, _ := g.Cell(1); c.RoomID != 0 {
		t.Error("Row() aliases the grid")
	}
	if g.ListRooms()[0] != 0 {
		t.Error("ListRooms() aliases the memoized list")
	}
}

func TestClone(t *testing.T) {
	g, err := New(Options{Width: 6, Height: 4, RoomCount: 3, Rand: rng.New(8)})
	if err != nil {
		t.Fatal(err)
	}
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone is not value-equal")
	}
	if &g.cells[0] == &c.cells[0] {
		t.Fatal("clone shares the cell array")
	}
	c.cells[0].RoomID = 42
	if g.cells[0].RoomID == 42 {
		t.Error("mutating the clone changed the original")
	}
}

func TestJSON(t *testing.T) {
	g := sample(t)
	b, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"width":3,"height":3,"roomCount":3,"cells":[` +
		`{"id":0,"x":0,"y":0,"roomId":0},{"id":1,"x":1,"y":0,"roomId":0},{"id":2,"x":2,"y":0,"roomId":0},` +
		`{"id":3,"x":0,"y":1,"roomId":1},{"id":4,"x":1,"y":1,"roomId":1},{"id":5,"x":2,"y":1,"roomId":1},` +
		`{"id":6,"x":0,"y":2,"roomId":2},{"id":7,"x":1,"y":2,"roomId":2},{"id":8,"x":2,"y":2,"roomId":2}]}`
	if string(b) != want {
		t.Errorf("Marshal = %s\nwant %s", b, want)
	}

	var back Grid
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(g) || back.RoomCount() != 3 {
		t.Error("decoded grid differs")
	}

	bad := `{"width":2,"height":1,"roomCount":5,"cells":[{"id":0,"x":0,"y":0,"roomId":0},{"id":1,"x":1,"y":0,"roomId":1}]}`
	if err := json.Unmarshal([]byte(bad), &back); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("Unmarshal(bad roomCount) error = %v", err)
	}
}
