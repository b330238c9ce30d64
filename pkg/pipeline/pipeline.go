// Package pipeline provides the map generation pipeline for roomgrid.
//
// This package implements the complete generate → graph → render pipeline
// used by the CLI and the HTTP server. Centralizing it keeps request
// validation, seeding and caching identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: partition a width×height grid into rooms
//  2. Graph: link the rooms into a connectivity tree
//  3. Render: produce text, JSON, DOT, SVG, PDF or PNG output
//
// Each stage draws from its own generator derived from the request seed, so
// a stage served from the cache leaves later stages unchanged.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	seed := uint64(42)
//	req := pipeline.Request{Width: 10, Height: 10, RoomCount: 6, Seed: &seed}
//	result, err := runner.Execute(ctx, req, pipeline.Options{Formats: []string{"text"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Artifacts["text"]))
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomgrid/pkg/cache"
	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/render/text"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default number of columns.
	DefaultWidth = 10

	// DefaultHeight is the default number of rows.
	DefaultHeight = 10

	// DefaultRoomCount is the default number of rooms.
	DefaultRoomCount = 6

	// DefaultPadding is the default label padding of the text map.
	DefaultPadding = text.DefaultPadding
)

// Format constants for output formats.
const (
	FormatText     = "text"
	FormatSimple   = "simple"
	FormatJSON     = "json"
	FormatTree     = "tree"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatPDF      = "pdf"
	FormatPNG      = "png"
	FormatGraphSVG = "graph-svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:     true,
	FormatSimple:   true,
	FormatJSON:     true,
	FormatTree:     true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatPDF:      true,
	FormatPNG:      true,
	FormatGraphSVG: true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{
	FormatText, FormatSimple, FormatJSON, FormatTree, FormatDOT,
	FormatSVG, FormatPDF, FormatPNG, FormatGraphSVG,
}

// =============================================================================
// Request - What to generate
// =============================================================================

// Request describes one map. A nil Seed draws a fresh seed from the runtime;
// the seed actually used is reported in [Result.Request].
type Request struct {
	Width      int                `json:"width" yaml:"width" bson:"width"`
	Height     int                `json:"height" yaml:"height" bson:"height"`
	RoomCount  int                `json:"roomCount" yaml:"roomCount" bson:"room_count"`
	Seed       *uint64            `json:"seed,omitempty" yaml:"seed,omitempty" bson:"-"`
	PickMethod cellgen.PickMethod `json:"pickMethod" yaml:"pickMethod" bson:"pick_method"`
	Method     cellgen.Method     `json:"method" yaml:"method" bson:"method"`
}

// Validate checks dimensions and enum values before any generation work.
func (r Request) Validate() error {
	if err := apperr.ValidateDimensions(r.Width, r.Height, r.RoomCount); err != nil {
		return err
	}
	if _, err := r.PickMethod.MarshalText(); err != nil {
		return err
	}
	if _, err := r.Method.MarshalText(); err != nil {
		return err
	}
	return nil
}

// Cells returns Width*Height, or 0 when the size is invalid. A non-zero
// result never overflows.
func (r Request) Cells() int {
	if apperr.ValidateGridSize(r.Width, r.Height) != nil {
		return 0
	}
	return r.Width * r.Height
}

// Seeded reports whether the request pins its seed.
func (r Request) Seeded() bool {
	return r.Seed != nil
}

// Resolve returns a copy of r whose Seed is set, drawing one if needed.
func (r Request) Resolve() Request {
	if r.Seed == nil {
		seed := rng.NewRandom().Seed()
		r.Seed = &seed
	}
	return r
}

// GridKeyOpts returns cache key options for the generated grid.
func (r Request) GridKeyOpts() cache.GridKeyOpts {
	opts := cache.GridKeyOpts{
		Width:      r.Width,
		Height:     r.Height,
		RoomCount:  r.RoomCount,
		Method:     r.Method.String(),
		PickMethod: r.PickMethod.String(),
	}
	if r.Seed != nil {
		opts.Seed = *r.Seed
	}
	return opts
}

// Seed salts for the per-stage generators.
const (
	graphSalt  = 0x5851f42d4c957f2d
	renderSalt = 0x14057b7ef767814f
)

func gridRand(seed uint64) *rng.Rand   { return rng.New(seed) }
func graphRand(seed uint64) *rng.Rand  { return rng.New(seed ^ graphSalt) }
func renderRand(seed uint64) *rng.Rand { return rng.New(seed ^ renderSalt) }

// =============================================================================
// Options - How to build the graph and render
// =============================================================================

// Options contains graph and render configuration.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation
	SafetyLimit int `json:"safety_limit,omitempty"`

	// Graph
	FanOut      []int `json:"fan_out,omitempty"`
	DropOrphans bool  `json:"drop_orphans,omitempty"`

	// Render
	Formats   []string `json:"formats,omitempty"`
	Color     bool     `json:"color,omitempty"`
	MapOnly   bool     `json:"map_only,omitempty"`
	Padding   *string  `json:"padding,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Adjacency bool     `json:"adjacency,omitempty"`
	Labels    bool     `json:"labels,omitempty"`
	CellSize  float64  `json:"cell_size,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// SkipRender stops after the graph stage. The graph is still built when
	// the formats need it.
	SkipRender bool `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Request is the input with its seed resolved.
	Request Request

	// Grid is the generated grid.
	Grid *grid.Grid

	// GridHash is the content hash of the grid JSON.
	GridHash string

	// Graph is the room connectivity graph.
	Graph *mapgraph.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells        int
	Rooms        int
	Trees        int
	GenerateTime time.Duration
	GraphTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GridHit   bool // Whether the grid came from cache
	GraphHit  bool // Whether the graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in unset render options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Padding == nil {
		p := DefaultPadding
		o.Padding = &p
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks formats and padding.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := apperr.ValidatePadding(*o.Padding); err != nil {
		return err
	}
	if o.CellSize < 0 || o.Scale < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "cell size and scale must not be negative")
	}
	return nil
}

// NeedsGraph reports whether any requested format uses the room graph.
func (o *Options) NeedsGraph() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatJSON, FormatTree, FormatDOT, FormatSVG, FormatPDF, FormatPNG, FormatGraphSVG:
			return true
		}
	}
	return false
}

// GraphOptions returns the mapgraph options for this run.
func (o *Options) GraphOptions() []mapgraph.Option {
	var opts []mapgraph.Option
	if len(o.FanOut) > 0 {
		opts = append(opts, mapgraph.WithFanOut(o.FanOut...))
	}
	if o.DropOrphans {
		opts = append(opts, mapgraph.WithDropOrphans())
	}
	return opts
}

// GraphKeyOpts returns cache key options for the room graph.
func (o *Options) GraphKeyOpts(seed uint64) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Seed:         seed,
		DropOrphans:  o.DropOrphans,
		FanOutValues: o.FanOut,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format. Only
// the options that affect that format are included.
func (o *Options) ArtifactKeyOpts(format string, seed uint64) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Seed: seed}
	switch format {
	case FormatText, FormatSimple:
		opts.Color = o.Color
		opts.MapOnly = o.MapOnly
		if o.Padding != nil {
			opts.Padding = *o.Padding
		}
		return opts
	}
	opts.FanOut = o.FanOut
	opts.DropOrphans = o.DropOrphans
	switch format {
	case FormatDOT, FormatGraphSVG:
		opts.Detailed = o.Detailed
		opts.Adjacency = o.Adjacency
	case FormatSVG, FormatPDF, FormatPNG:
		opts.Labels = o.Labels
		opts.CellSize = o.CellSize
		opts.Scale = o.Scale
	}
	return opts
}
