// Package nodelink renders room trees as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// each room appears as a box and every tree connection as an arrow from the
// parent room to the child. It complements the text tree of package text
// when a picture of the room layout's navigation is wanted.
//
// # Usage
//
// Convert a graph built by mapgraph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(gr, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the room size and cell count
//   - Adjacency: When true, neighbouring rooms that are not connected in the
//     tree are joined by dashed, undirected edges
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Each tree root is drawn with a double outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
