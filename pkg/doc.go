// Package pkg provides the core libraries of roomgrid.
//
// # Overview
//
// Roomgrid partitions a rectangular grid of unit cells into a fixed number
// of contiguous rooms, links the rooms into a connectivity tree and renders
// the result. The pkg directory is organized into four areas:
//
//  1. Generation: [cell], [grid], [cellgen], [rng]
//  2. Room graph: [mapgraph]
//  3. Output: [render] and its subpackages, [io]
//  4. Infrastructure: [pipeline], [cache], [store], [errors], [observability]
//
// # Architecture
//
// The data flow through roomgrid:
//
//	Request (width, height, room count, seed)
//	         ↓
//	    [cellgen] (grow rooms from seed cells)
//	         ↓
//	    [grid] (validated room assignment)
//	         ↓
//	    [mapgraph] (room adjacency + connectivity tree)
//	         ↓
//	    [render] (text, JSON, DOT, SVG, PDF, PNG)
//
// # Quick Start
//
//	seed := uint64(42)
//	g, err := grid.New(grid.Options{Width: 10, Height: 10, RoomCount: 6, Rand: rng.New(seed)})
//	if err != nil {
//	    return err
//	}
//	gr, _ := mapgraph.Build(g, rng.New(seed))
//	fmt.Println(text.Render(g))
//	fmt.Println(text.RenderForest(gr))
//
// Most callers use [pipeline.Runner] instead, which derives a generator per
// stage from the seed and caches each stage.
//
// # Main Packages
//
// [cellgen] - The growth generator (seed cells, then tiered growth until the
// grid is full) and the naive generator used as a baseline.
//
// [grid] - An immutable width×height grid whose cells carry room ids, with
// room, row and neighbour queries and JSON encoding.
//
// [mapgraph] - Room adjacency and the randomized tree linking the rooms.
//
// [render/text] - Wall maps, the simple numeric map and indented trees.
//
// [render/svgmap] - SVG floor plans, converted to PDF or PNG by [render].
//
// [render/nodelink] - Graphviz DOT and SVG diagrams of the room tree.
//
// [cache] - File, Redis and null caches for the pipeline stages.
//
// [store] - The map archive, in memory or MongoDB.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//	ROOMGRID_TEST_REDIS=redis://localhost:6379/1 go test ./pkg/cache
//	ROOMGRID_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/store
//
// [cell]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/cell
// [grid]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/grid
// [cellgen]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/cellgen
// [rng]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/rng
// [mapgraph]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/mapgraph
// [render]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/render
// [render/text]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/render/text
// [render/svgmap]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/render/svgmap
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/roomgrid/pkg/observability
package pkg
