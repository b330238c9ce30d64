package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/roomgrid/pkg/mapgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the room size in node labels.
	// When false, only the room id is shown.
	Detailed bool
	// Adjacency adds dashed edges between neighbouring rooms that the tree
	// does not connect.
	Adjacency bool
}

// ToDOT converts a room graph to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using
// [RenderSVG].
func ToDOT(gr *mapgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	roots := map[int]bool{}
	for _, t := range gr.Trees {
		roots[t.RoomID] = true
	}
	for _, r := range gr.Rooms {
		if !gr.Contains(r.ID) {
			continue
		}
		attrs := fmtAttrs(r, roots[r.ID], opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(r.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	tree := map[[2]int]bool{}
	for _, t := range gr.Trees {
		t.Walk(func(n, parent *mapgraph.MapNode, _ int) {
			if parent == nil {
				return
			}
			tree[[2]int{parent.RoomID, n.RoomID}] = true
			tree[[2]int{n.RoomID, parent.RoomID}] = true
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(parent.RoomID), nodeID(n.RoomID))
		})
	}

	if opts.Adjacency {
		for _, r := range gr.Rooms {
			for _, n := range r.Neighbors {
				if n < r.ID || tree[[2]int{r.ID, n}] || !gr.Contains(r.ID) || !gr.Contains(n) {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, dir=none, color=grey, constraint=false];\n",
					nodeID(r.ID), nodeID(n))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(room int) string {
	return "room" + strconv.Itoa(room)
}

func fmtLabel(r mapgraph.RoomInfo, detailed bool) string {
	if !detailed {
		return strconv.Itoa(r.ID)
	}
	return fmt.Sprintf("%d\nsize: %d\nneighbors: %d", r.ID, r.Size, len(r.Neighbors))
}

func fmtAttrs(r mapgraph.RoomInfo, root, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(r, detailed))}
	if root {
		attrs = append(attrs, "peripheries=2", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
