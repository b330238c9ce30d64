package text

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/render/palette"
)

const (
	blank      = " "
	vertical   = "|"
	horizontal = "-"
	corner     = "+"
)

// Render draws g as a wall map followed, unless [WithMapOnly] is set, by a
// blank line and one manifest line per room. Lines are joined by "\n" with
// no trailing newline.
func Render(g *grid.Grid, opts ...Option) string {
	o := newOptions(opts)
	tokens := wallTokens(g)
	widths := columnWidths(g)

	var pal *palette.Palette
	if o.colors {
		pal = palette.ForCells(g.Len(), o.rand)
	}

	padWidth := 2 * utf8.RuneCountInString(o.padding)
	lines := make([]string, len(tokens))
	for y, row := range tokens {
		var b strings.Builder
		for x, tok := range row {
			if x%2 == 0 {
				b.WriteString(tok)
				continue
			}
			width := widths[x/2]
			if y%2 == 0 {
				b.WriteString(strings.Repeat(tok, width+padWidth))
				continue
			}
			label := tok
			if pal != nil {
				room, _ := g.CellAt(x/2, y/2)
				label = pal.Colorize(room.RoomID, tok)
			}
			b.WriteString(o.padding)
			b.WriteString(strings.Repeat(blank, width-len(tok)))
			b.WriteString(label)
			b.WriteString(o.padding)
		}
		lines[y] = b.String()
	}

	out := strings.Join(lines, "\n")
	if o.mapOnly {
		return out
	}
	return out + "\n\n" + RenderManifest(g)
}

// RenderManifest lists every room as "room <id> size=<n> cells=<a,b,...>"
// in ascending id order.
func RenderManifest(g *grid.Grid) string {
	rooms := g.Rooms()
	lines := make([]string, len(rooms))
	for i, r := range rooms {
		ids := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			ids[j] = strconv.Itoa(c)
		}
		lines[i] = fmt.Sprintf("room %d size=%d cells=%s", r.ID, r.Size, strings.Join(ids, ","))
	}
	return strings.Join(lines, "\n")
}

// wallTokens lays g out on a (2h+1) x (2w+1) matrix. Odd rows and columns
// hold room labels, the remaining positions hold wall segments and
// intersections.
func wallTokens(g *grid.Grid) [][]string {
	w, h := g.Width(), g.Height()
	room := func(x, y int) int {
		c, _ := g.CellAt(x, y)
		return c.RoomID
	}

	tokens := make([][]string, 2*h+1)
	for y := range tokens {
		tokens[y] = make([]string, 2*w+1)
	}

	for y := 0; y < h; y++ {
		row := tokens[2*y+1]
		row[0] = vertical
		for x := 0; x < w; x++ {
			row[2*x+1] = strconv.Itoa(room(x, y))
			sep := vertical
			if x < w-1 && room(x, y) == room(x+1, y) {
				sep = blank
			}
			row[2*x+2] = sep
		}
	}

	for y := 0; y <= h; y++ {
		row := tokens[2*y]
		for x := 0; x < w; x++ {
			seg := horizontal
			if y > 0 && y < h && room(x, y-1) == room(x, y) {
				seg = blank
			}
			row[2*x+1] = seg
		}
	}

	at := func(y, x int) string {
		if y < 0 || y >= len(tokens) || x < 0 || x >= len(tokens[y]) {
			return blank
		}
		return tokens[y][x]
	}
	for y := 0; y < len(tokens); y += 2 {
		for x := 0; x < len(tokens[y]); x += 2 {
			tokens[y][x] = intersection(at(y-1, x), at(y+1, x), at(y, x+1), at(y, x-1))
		}
	}
	return tokens
}

// intersection picks the glyph where four wall segments meet.
func intersection(n, s, e, w string) string {
	switch {
	case n == blank && s == blank && e == blank && w == blank:
		return blank
	case e == blank && w == blank:
		return vertical
	case n == blank && s == blank:
		return horizontal
	}
	return corner
}

// columnWidths returns the widest room label of every column.
func columnWidths(g *grid.Grid) []int {
	widths := make([]int, g.Width())
	for x := range widths {
		widths[x] = 1
		for _, c := range g.Column(x) {
			widths[x] = max(widths[x], len(strconv.Itoa(c.RoomID)))
		}
	}
	return widths
}

// RenderSimple prints one line per row of space-joined room ids, each
// right-aligned to the widest id in its column.
func RenderSimple(g *grid.Grid, opts ...Option) string {
	o := newOptions(opts)
	widths := columnWidths(g)

	var pal *palette.Palette
	if o.colors && g.RoomCount() <= palette.ManyLen {
		pal = palette.ForCells(g.Len(), o.rand)
	}

	lines := make([]string, g.Height())
	for y := range lines {
		row := g.Row(y)
		parts := make([]string, len(row))
		for x, c := range row {
			label := strconv.Itoa(c.RoomID)
			pad := strings.Repeat(blank, widths[x]-len(label))
			if pal != nil {
				label = pal.Colorize(c.RoomID, label)
			}
			parts[x] = pad + label
		}
		lines[y] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}
