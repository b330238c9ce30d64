package svgmap

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/roomgrid/pkg/cell"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

const roomInteractionCSS = `
    .cell { transition: fill-opacity 0.2s ease; fill-opacity: 0.85; }
    .cell.highlight { fill-opacity: 1; stroke: #222; stroke-width: 0.5; }
    .label { font-family: monospace; pointer-events: none; }`

const roomInteractionJS = `
    function highlight(room) {
      document.querySelectorAll('.cell').forEach(c => c.classList.toggle('highlight', c.dataset.room === room));
    }
    document.querySelectorAll('.cell').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.room));
      el.addEventListener('mouseleave', () => highlight(null));
    });`

// fills are the room colours, cycled by room id after a per-render shuffle.
var fills = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

const (
	defaultCellSize = 32.0
	wallWidth       = 3.0
	margin          = 4.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	graph    *mapgraph.Graph
	cellSize float64
	labels   bool
	rand     rng.Source
}

// WithGraph draws a door for every connection of the room tree.
func WithGraph(gr *mapgraph.Graph) SVGOption { return func(r *svgRenderer) { r.graph = gr } }

// WithLabels writes the room id into every cell.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithCellSize sets the side length of a cell in pixels.
func WithCellSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.cellSize = px
		}
	}
}

// WithRand sets the source used to shuffle room colours.
func WithRand(s rng.Source) SVGOption { return func(r *svgRenderer) { r.rand = s } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cellSize: defaultCellSize}
	for _, opt := range opts {
		opt(&r)
	}
	if r.rand == nil {
		r.rand = rng.NewRandom()
	}
	return r
}

// segment is a wall between two grid-line points, in cell units.
type segment struct {
	x1, y1, x2, y2 int
}

// RenderSVG draws g as an SVG document.
func RenderSVG(g *grid.Grid, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	palette := rng.Shuffle(r.rand, fills)

	width := float64(g.Width())*r.cellSize + 2*margin
	height := float64(g.Height())*r.cellSize + 2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	renderCells(&buf, &r, g, palette)
	renderWalls(&buf, &r, walls(g))
	if r.graph != nil {
		renderDoors(&buf, &r, doors(g, r.graph))
	}
	if r.labels {
		renderLabels(&buf, &r, g)
	}
	renderRoomInteraction(&buf)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) px(v int) float64 {
	return margin + float64(v)*r.cellSize
}

func renderCells(buf *bytes.Buffer, r *svgRenderer, g *grid.Grid, palette []string) {
	for _, c := range g.Cells() {
		fill := palette[c.RoomID%len(palette)]
		fmt.Fprintf(buf, `  <rect class="cell" data-room="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			c.RoomID, r.px(c.X), r.px(c.Y), r.cellSize, r.cellSize, fill)
	}
}

func renderWalls(buf *bytes.Buffer, r *svgRenderer, segs []segment) {
	fmt.Fprintf(buf, `  <g stroke="#222" stroke-width="%.1f" stroke-linecap="square">`+"\n", wallWidth)
	for _, s := range segs {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			r.px(s.x1), r.px(s.y1), r.px(s.x2), r.px(s.y2))
	}
	buf.WriteString("  </g>\n")
}

// renderDoors paints the middle half of a shared wall segment in white.
func renderDoors(buf *bytes.Buffer, r *svgRenderer, segs []segment) {
	fmt.Fprintf(buf, `  <g stroke="#fff" stroke-width="%.1f">`+"\n", wallWidth+1)
	for _, s := range segs {
		x1, y1, x2, y2 := r.px(s.x1), r.px(s.y1), r.px(s.x2), r.px(s.y2)
		qx, qy := (x2-x1)/4, (y2-y1)/4
		fmt.Fprintf(buf, `    <line class="door" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x1+qx, y1+qy, x2-qx, y2-qy)
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, r *svgRenderer, g *grid.Grid) {
	size := r.cellSize * 0.4
	for _, c := range g.Cells() {
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%d</text>`+"\n",
			r.px(c.X)+r.cellSize/2, r.px(c.Y)+r.cellSize/2, size, c.RoomID)
	}
}

func renderRoomInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", roomInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", roomInteractionJS)
}

// walls returns every boundary segment and every segment between cells of
// different rooms.
func walls(g *grid.Grid) []segment {
	w, h := g.Width(), g.Height()
	segs := []segment{
		{0, 0, w, 0},
		{0, h, w, h},
		{0, 0, 0, h},
		{w, 0, w, h},
	}
	for _, c := range g.Cells() {
		if e, ok := g.CellAt(c.X+1, c.Y); ok && e.RoomID != c.RoomID {
			segs = append(segs, sharedEdge(c, e))
		}
		if s, ok := g.CellAt(c.X, c.Y+1); ok && s.RoomID != c.RoomID {
			segs = append(segs, sharedEdge(c, s))
		}
	}
	return segs
}

// doors picks one shared wall segment for each connection of the tree: the
// first one found scanning the parent room's cells in id order.
func doors(g *grid.Grid, gr *mapgraph.Graph) []segment {
	var segs []segment
	for _, t := range gr.Trees {
		t.Walk(func(n, parent *mapgraph.MapNode, _ int) {
			if parent == nil {
				return
			}
			if s, ok := firstSharedEdge(g, parent.RoomID, n.RoomID); ok {
				segs = append(segs, s)
			}
		})
	}
	return segs
}

func firstSharedEdge(g *grid.Grid, a, b int) (segment, bool) {
	room, ok := g.FindRoom(a)
	if !ok {
		return segment{}, false
	}
	for _, id := range room.Cells {
		c, _ := g.Cell(id)
		for _, n := range g.Neighbors(id) {
			if n.RoomID == b {
				return sharedEdge(c, n), true
			}
		}
	}
	return segment{}, false
}

// sharedEdge returns the grid-line segment between two adjacent cells.
func sharedEdge(a, b cell.Cell) segment {
	if a.ID > b.ID {
		a, b = b, a
	}
	if a.Y == b.Y {
		return segment{b.X, b.Y, b.X, b.Y + 1}
	}
	return segment{b.X, b.Y, b.X + 1, b.Y}
}
