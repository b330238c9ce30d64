// Package render provides the output formats of roomgrid.
//
// # Overview
//
// The rendering subpackages turn a generated grid, or the room tree built
// from it, into something a person can look at:
//
//   - Plain text maps and trees (in [text] subpackage)
//   - Terminal colours for room labels (in [palette] subpackage)
//   - SVG floor plans of the grid (in [svgmap] subpackage)
//   - Node-link diagrams of the room tree (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// svgmap and node-link renderers.
//
//	svg := svgmap.RenderSVG(g)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [text]: github.com/matzehuels/roomgrid/pkg/render/text
// [palette]: github.com/matzehuels/roomgrid/pkg/render/palette
// [svgmap]: github.com/matzehuels/roomgrid/pkg/render/svgmap
// [nodelink]: github.com/matzehuels/roomgrid/pkg/render/nodelink
package render
