package pipeline

import (
	"bytes"
	"fmt"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	pkgio "github.com/matzehuels/roomgrid/pkg/io"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/render/nodelink"
	"github.com/matzehuels/roomgrid/pkg/render/svgmap"
	"github.com/matzehuels/roomgrid/pkg/render/text"
)

// Render generates output artifacts in the requested formats. The graph may
// be nil when no requested format needs it. Each format draws from a fresh
// generator derived from seed, so the output of one format never depends on
// which other formats were requested.
func Render(g *grid.Grid, gr *mapgraph.Graph, seed uint64, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if gr == nil && opts.NeedsGraph() {
		return nil, apperr.New(apperr.ErrCodeInternal, "formats %v need a room graph", opts.Formats)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(g, gr, seed, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(g *grid.Grid, gr *mapgraph.Graph, seed uint64, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(text.Render(g, textOptions(seed, opts)...)), nil
	case FormatSimple:
		return []byte(text.RenderSimple(g, textOptions(seed, opts)...)), nil
	case FormatTree:
		return []byte(text.RenderForest(gr)), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(pkgio.Map{Seed: &seed, Grid: g, Graph: gr}, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(gr, dotOptions(opts))), nil
	case FormatGraphSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(gr, dotOptions(opts)))
	case FormatSVG:
		return svgmap.RenderSVG(g, svgOptions(gr, seed, opts)...), nil
	case FormatPDF:
		return svgmap.RenderPDF(g, svgmap.WithPDFSVGOptions(svgOptions(gr, seed, opts)...))
	case FormatPNG:
		pngOpts := []svgmap.PNGOption{svgmap.WithPNGSVGOptions(svgOptions(gr, seed, opts)...)}
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, svgmap.WithScale(opts.Scale))
		}
		return svgmap.RenderPNG(g, pngOpts...)
	}
	return nil, ValidateFormat(format)
}

func textOptions(seed uint64, opts Options) []text.Option {
	return []text.Option{
		text.WithColors(opts.Color),
		text.WithPadding(*opts.Padding),
		text.WithMapOnly(opts.MapOnly),
		text.WithRand(renderRand(seed)),
	}
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Adjacency: opts.Adjacency}
}

func svgOptions(gr *mapgraph.Graph, seed uint64, opts Options) []svgmap.SVGOption {
	svgOpts := []svgmap.SVGOption{
		svgmap.WithGraph(gr),
		svgmap.WithRand(renderRand(seed)),
	}
	if opts.Labels {
		svgOpts = append(svgOpts, svgmap.WithLabels())
	}
	if opts.CellSize > 0 {
		svgOpts = append(svgOpts, svgmap.WithCellSize(opts.CellSize))
	}
	return svgOpts
}
