package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomgrid/internal/config"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/store"
)

// generateOpts holds the flags of the generate and graph commands.
type generateOpts struct {
	req         requestFlags
	formats     string
	output      string
	color       string
	mapOnly     bool
	padding     string
	detailed    bool
	adjacency   bool
	labels      bool
	cellSize    float64
	scale       float64
	fanOut      []int
	dropOrphans bool
	safetyLimit int
	showRequest bool
	noCache     bool
	refresh     bool
	save        bool
}

// binaryFormats are never written to a terminal.
var binaryFormats = map[string]bool{pipeline.FormatPDF: true, pipeline.FormatPNG: true}

// fileExt maps pipeline formats to output file suffixes.
var fileExt = map[string]string{
	pipeline.FormatText:     "txt",
	pipeline.FormatSimple:   "simple.txt",
	pipeline.FormatTree:     "tree.txt",
	pipeline.FormatJSON:     "json",
	pipeline.FormatDOT:      "dot",
	pipeline.FormatSVG:      "svg",
	pipeline.FormatPDF:      "pdf",
	pipeline.FormatPNG:      "png",
	pipeline.FormatGraphSVG: "graph.svg",
	formatGraphJSON:         "graph.json",
}

// formatGraphJSON is the graph command's bare graph JSON output.
const formatGraphJSON = "graph-json"

// graphFormats maps graph command format names to output formats.
var graphFormats = map[string]string{
	"text": pipeline.FormatTree,
	"tree": pipeline.FormatTree,
	"json": formatGraphJSON,
	"dot":  pipeline.FormatDOT,
	"svg":  pipeline.FormatGraphSVG,
}

func (o *generateOpts) registerRender(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (several formats)")
	fl.StringVar(&o.color, "color", colorAuto, "ANSI colours: auto, always, never")
	fl.StringVar(&o.padding, "padding", "", "label padding character of the text map")
	fl.BoolVar(&o.detailed, "detailed", false, "label graph nodes with room sizes")
	fl.BoolVar(&o.adjacency, "adjacency", false, "draw non-tree adjacencies in graph output")
	fl.IntSliceVar(&o.fanOut, "fan-out", nil, "fan-out values for the room tree (default 1,2,3)")
	fl.BoolVar(&o.dropOrphans, "drop-orphans", false, "leave rooms the tree walk never reaches unlinked")
	fl.BoolVar(&o.showRequest, "show-request", false, "print the resolved request as YAML first")
	fl.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&o.refresh, "refresh", false, "ignore cached results")
	fl.BoolVar(&o.save, "save", false, "archive the map in the configured store")
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a room map",
		Long: `Generate a grid partitioned into rooms and render it.

Dimensions accept a number or a min,max range drawn from the seed:

  roomgrid generate -w 12 -H 8 -r 6 -s 42
  roomgrid generate -w 4,16 -H 4,16 -r 2,15 --show-request
  roomgrid generate -f text,svg,json -o dungeon`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats, pipeline.FormatText)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runGenerate(cmd, &opts, formats)
		},
	}

	opts.req.register(cmd)
	opts.registerRender(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.FormatNames, ", "))
	fl.BoolVar(&opts.mapOnly, "map-only", false, "omit the room manifest from text output")
	fl.BoolVar(&opts.labels, "labels", false, "label rooms in svg, pdf and png output")
	fl.Float64Var(&opts.cellSize, "cell-size", 0, "cell size in svg units")
	fl.Float64Var(&opts.scale, "scale", 0, "png scale factor")
	fl.IntVar(&opts.safetyLimit, "safety-limit", 0, "maximum growth passes (default 10000)")

	return cmd
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a room map and print its room tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := parseFormats(opts.formats, "text")
			formats := make([]string, len(names))
			for i, n := range names {
				f, ok := graphFormats[n]
				if !ok {
					return apperr.New(apperr.ErrCodeInvalidFormat, "invalid graph format %q (must be one of: text, json, dot, svg)", n)
				}
				formats[i] = f
			}
			return c.runGenerate(cmd, &opts, formats)
		},
	}

	opts.req.register(cmd)
	opts.registerRender(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: text, json, dot, svg")

	return cmd
}

// pipelineOptions converts the flags into pipeline options. Formats that
// are not pipeline formats are replaced so the graph is still built.
func (o *generateOpts) pipelineOptions(formats []string, cfg *config.Config, color bool) pipeline.Options {
	opts := pipeline.Options{
		SafetyLimit: o.safetyLimit,
		FanOut:      o.fanOut,
		DropOrphans: o.dropOrphans,
		Color:       color,
		MapOnly:     o.mapOnly,
		Detailed:    o.detailed,
		Adjacency:   o.adjacency,
		Labels:      o.labels,
		CellSize:    o.cellSize,
		Scale:       o.scale,
		Refresh:     o.refresh,
	}
	padding := cfg.Defaults.Padding
	if o.padding != "" {
		padding = o.padding
	}
	opts.Padding = &padding

	for _, f := range formats {
		if f == formatGraphJSON {
			f = pipeline.FormatTree
		}
		opts.Formats = append(opts.Formats, f)
	}
	return opts
}

func (c *CLI) runGenerate(cmd *cobra.Command, o *generateOpts, formats []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	req, err := o.req.resolve(cmd, c.Config.Defaults)
	if err != nil {
		return err
	}
	color, err := colorEnabled(o.color, out)
	if err != nil {
		return err
	}
	toStdout := o.output == "" && len(formats) == 1 && !binaryFormats[formats[0]]
	opts := o.pipelineOptions(formats, c.Config, color && toStdout)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, req, opts)
	if err != nil {
		return err
	}
	prog.done("Generated map", "seed", *res.Request.Seed)

	if o.showRequest {
		if err := writeRequestYAML(out, res.Request); err != nil {
			return err
		}
	}

	artifacts, err := collectArtifacts(res, formats)
	if err != nil {
		return err
	}
	if toStdout {
		if err := writeArtifact(out, artifacts[formats[0]]); err != nil {
			return err
		}
	} else {
		paths, err := writeFiles(artifacts, formats, o.output, *res.Request.Seed)
		if err != nil {
			return err
		}
		printSuccess("Generated %d file(s)", len(paths))
		for _, p := range paths {
			printFile(p)
		}
	}
	printStats(statsLine{
		width:  res.Grid.Width(),
		height: res.Grid.Height(),
		rooms:  res.Stats.Rooms,
		trees:  res.Stats.Trees,
		seed:   *res.Request.Seed,
		cached: res.CacheInfo.GridHit,
	})

	if o.save {
		return c.saveResult(ctx, runner, res, opts)
	}
	return nil
}

// collectArtifacts adds the graph-only outputs the pipeline does not
// render itself.
func collectArtifacts(res *pipeline.Result, formats []string) (map[string][]byte, error) {
	artifacts := res.Artifacts
	for _, f := range formats {
		if f != formatGraphJSON {
			continue
		}
		data, err := json.MarshalIndent(res.Graph, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode graph: %w", err)
		}
		artifacts[f] = append(data, '\n')
	}
	return artifacts, nil
}

func writeArtifact(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// outputPaths returns the file each format is written to. A single format
// with an explicit output uses it verbatim; otherwise output (or
// roomgrid-<seed>) is a base path that gets a per-format suffix.
func outputPaths(formats []string, output string, seed uint64) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = fmt.Sprintf("%s-%d", appName, seed)
	} else if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + fileExt[f]
	}
	return paths
}

func writeFiles(artifacts map[string][]byte, formats []string, output string, seed uint64) ([]string, error) {
	paths := outputPaths(formats, output, seed)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		p := paths[f]
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}

// saveResult archives res, building its graph first when the requested
// formats did not need one.
func (c *CLI) saveResult(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, opts pipeline.Options) error {
	if res.Graph == nil {
		gr, err := runner.BuildGraph(ctx, res.Grid, *res.Request.Seed, opts)
		if err != nil {
			return err
		}
		res.Graph = gr
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	if c.Config.Store.Backend == config.StoreMemory {
		printWarning("store backend is memory; the map is discarded on exit")
	}
	rec := store.NewRecord(res)
	if err := st.Save(ctx, &rec); err != nil {
		return err
	}
	printSuccess("Archived map %s", rec.ID)
	printNextStep("Show it", fmt.Sprintf("%s maps show %s", appName, rec.ID))
	return nil
}
