package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomgrid/pkg/cache"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching and seeding behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → graph → render pipeline. Only seeded
// requests read or write the cache.
func (r *Runner) Execute(ctx context.Context, req Request, opts Options) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	stages := r
	if !req.Seeded() {
		stages = &Runner{Cache: cache.NewNullCache(), Keyer: r.Keyer, Logger: r.Logger}
	}
	req = req.Resolve()
	seed := *req.Seed

	result := &Result{
		Request:   req,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	g, gridHit, err := stages.GenerateWithCacheInfo(ctx, req, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Grid = g
	result.GridHash = HashGrid(g)
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Cells = g.Len()
	result.Stats.Rooms = g.RoomCount()
	result.CacheInfo.GridHit = gridHit

	r.Logger.Info("generated grid",
		"width", g.Width(),
		"height", g.Height(),
		"rooms", g.RoomCount(),
		"seed", seed,
		"cached", gridHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Graph
	if opts.NeedsGraph() {
		graphStart := time.Now()
		gr, graphHit, err := stages.BuildGraphWithCacheInfo(ctx, g, seed, opts)
		if err != nil {
			return nil, fmt.Errorf("graph: %w", err)
		}
		result.Graph = gr
		result.Stats.GraphTime = time.Since(graphStart)
		result.Stats.Trees = len(gr.Trees)
		result.CacheInfo.GraphHit = graphHit

		r.Logger.Info("linked rooms",
			"trees", len(gr.Trees),
			"root", gr.Root().RoomID,
			"duration", result.Stats.GraphTime)
	}

	if opts.SkipRender {
		return result, nil
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := stages.RenderWithCacheInfo(ctx, g, result.Graph, seed, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo generates the grid for req and reports whether it
// came from the cache. An unseeded request is resolved and never cached.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, req Request, opts Options) (*grid.Grid, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	useCache := req.Seeded()
	req = req.Resolve()
	cacheKey := r.Keyer.GridKey(req.GridKeyOpts())

	if useCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var g grid.Grid
			if err := json.Unmarshal(data, &g); err == nil {
				observability.Cache().OnCacheHit(ctx, "grid")
				return &g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "grid")
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, req.Width, req.Height, req.RoomCount)
	start := time.Now()
	g, err := grid.New(grid.Options{
		Width:       req.Width,
		Height:      req.Height,
		RoomCount:   req.RoomCount,
		Method:      req.Method,
		PickMethod:  req.PickMethod,
		SafetyLimit: opts.SafetyLimit,
		Rand:        gridRand(*req.Seed),
	})
	hooks.OnGenerateComplete(ctx, req.Method.String(), req.Cells(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if data, err := json.Marshal(g); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLGrid) == nil {
				observability.Cache().OnCacheSet(ctx, "grid", len(data))
			}
		}
	}
	return g, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, req Request, opts Options) (*grid.Grid, error) {
	g, _, err := r.GenerateWithCacheInfo(ctx, req, opts)
	return g, err
}

// BuildGraphWithCacheInfo links the rooms of g and reports whether the graph
// came from the cache.
func (r *Runner) BuildGraphWithCacheInfo(ctx context.Context, g *grid.Grid, seed uint64, opts Options) (*mapgraph.Graph, bool, error) {
	cacheKey := r.Keyer.GraphKey(HashGrid(g), opts.GraphKeyOpts(seed))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var gr mapgraph.Graph
			if err := json.Unmarshal(data, &gr); err == nil && len(gr.Trees) > 0 {
				observability.Cache().OnCacheHit(ctx, "graph")
				return &gr, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	hooks := observability.Pipeline()
	hooks.OnGraphStart(ctx, g.RoomCount())
	start := time.Now()
	gr, err := mapgraph.Build(g, graphRand(seed), opts.GraphOptions()...)
	trees := 0
	if gr != nil {
		trees = len(gr.Trees)
	}
	hooks.OnGraphComplete(ctx, trees, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(gr); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph) == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	return gr, false, nil
}

// BuildGraph is a convenience wrapper that calls BuildGraphWithCacheInfo and discards the cache hit info.
func (r *Runner) BuildGraph(ctx context.Context, g *grid.Grid, seed uint64, opts Options) (*mapgraph.Graph, error) {
	gr, _, err := r.BuildGraphWithCacheInfo(ctx, g, seed, opts)
	return gr, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *grid.Grid, gr *mapgraph.Graph, seed uint64, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	gridHash := HashGrid(g)

	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(gridHash, opts.ArtifactKeyOpts(format, seed))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(g, gr, seed, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(gridHash, opts.ArtifactKeyOpts(format, seed))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *grid.Grid, gr *mapgraph.Graph, seed uint64, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, gr, seed, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// HashGrid returns the content hash of g's JSON form.
func HashGrid(g *grid.Grid) string {
	data, _ := json.Marshal(g)
	return cache.Hash(data)
}
