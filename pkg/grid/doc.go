// Package grid is the cell/room data model of roomgrid.
//
// A [Grid] is a width x height rectangle of cells stored row-major, each
// assigned to one of RoomCount rooms. Grids are built once, either by running
// a generator from package cellgen ([New]) or from a fixed assignment
// ([FromAssignment], [FromCells]), and are immutable afterwards. Accessors
// return copies, and [Grid.Clone] deep-copies the cells.
//
// Rooms are derived on demand from the cells:
//
//	g, err := grid.New(grid.Options{Width: 10, Height: 10, RoomCount: 6, Rand: rng.New(42)})
//	for _, id := range g.ListRooms() {
//	    room, _ := g.FindRoom(id)
//	    fmt.Println(room.ID, room.Size, room.Cells)
//	}
//
// Grids serialise to JSON as {width, height, roomCount, cells}.
package grid
