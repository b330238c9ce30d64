// Package svgmap renders a grid as an SVG floor plan.
//
// Each cell is drawn as a square filled with its room's colour, walls are
// drawn wherever two neighbouring cells belong to different rooms, and the
// outer boundary is always walled. When the room graph is supplied with
// [WithGraph], every tree connection is shown as a door: a gap in one of the
// wall segments the two rooms share.
//
//	svg := svgmap.RenderSVG(g, svgmap.WithGraph(gr), svgmap.WithLabels())
//	pdf, err := svgmap.RenderPDF(g, svgmap.WithPDFSVGOptions(svgmap.WithGraph(gr)))
//
// Hovering a room in a browser highlights all of its cells.
package svgmap
