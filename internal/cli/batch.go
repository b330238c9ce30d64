package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/roomgrid/internal/config"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	pkgio "github.com/matzehuels/roomgrid/pkg/io"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/rng"
	"github.com/matzehuels/roomgrid/pkg/store"
)

// Batch dimension ranges used when no flag overrides them.
const (
	batchWidth  = "3,16"
	batchHeight = "3,16"
	batchRooms  = "2,9"
)

type batchOpts struct {
	req     requestFlags
	count   int
	jobs    int
	dir     string
	color   string
	full    bool
	noCache bool
	save    bool
}

// batchItem is the outcome of one map in a batch.
type batchItem struct {
	req pipeline.Request
	res *pipeline.Result
	err error
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOpts{count: 20, jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate many maps with randomized dimensions",
		Long: `Generate a batch of maps. Map i uses seed+i; its dimensions are drawn
from the ranges with that seed, so any single map can be reproduced with
"roomgrid generate --show-request".

  roomgrid batch -n 5 -s 12345
  roomgrid batch -n 100 -w 8,32 -H 8,32 -r 4,20 --dir maps/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.count <= 0 {
				return apperr.New(apperr.ErrCodeInvalidInput, "--count must be positive, got %d", opts.count)
			}
			if opts.jobs <= 0 {
				opts.jobs = 1
			}
			for _, d := range []struct {
				val *string
				def string
			}{
				{&opts.req.width, batchWidth},
				{&opts.req.height, batchHeight},
				{&opts.req.rooms, batchRooms},
			} {
				if *d.val == "" {
					*d.val = d.def
				}
			}
			base := opts.req.seed
			if !cmd.Flags().Changed("seed") {
				base = rng.NewRandom().Seed()
			}
			return c.runBatch(cmd, &opts, base)
		},
	}

	opts.req.register(cmd)
	fl := cmd.Flags()
	fl.IntVarP(&opts.count, "count", "n", opts.count, "number of maps")
	fl.IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "maps generated in parallel")
	fl.StringVar(&opts.dir, "dir", "", "write each map as JSON into this directory instead of printing it")
	fl.StringVar(&opts.color, "color", colorAuto, "ANSI colours: auto, always, never")
	fl.BoolVar(&opts.full, "full", false, "print the room manifest below each map")
	fl.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&opts.save, "save", false, "archive every map in the configured store")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, o *batchOpts, base uint64) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	color, err := colorEnabled(o.color, out)
	if err != nil {
		return err
	}
	padding := c.Config.Defaults.Padding
	opts := pipeline.Options{
		Formats: []string{pipeline.FormatText},
		Color:   color && o.dir == "",
		MapOnly: !o.full,
		Padding: &padding,
		Logger:  logger,
	}
	if o.dir != "" || o.save {
		opts.Formats = append(opts.Formats, pipeline.FormatTree)
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	items := generateBatch(ctx, runner, o.req, c.Config.Defaults, base, o.count, o.jobs, opts)

	var archive store.Store
	if o.save {
		if archive, err = c.newStore(ctx); err != nil {
			return err
		}
		defer archive.Close(ctx)
	}
	if o.dir != "" {
		if err := os.MkdirAll(o.dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", o.dir, err)
		}
	}

	failed := 0
	for _, it := range items {
		if it.err != nil {
			failed++
			printError("seed %d: %s", seedOf(it.req), apperr.UserMessage(it.err))
			logger.Debug("map failed", "seed", seedOf(it.req), "err", it.err)
			continue
		}
		if o.dir != "" {
			path := filepath.Join(o.dir, fmt.Sprintf("map-%d.json", seedOf(it.req)))
			m := pkgio.Map{Seed: it.res.Request.Seed, Grid: it.res.Grid, Graph: it.res.Graph}
			if err := pkgio.ExportJSON(m, path); err != nil {
				return err
			}
			printFile(path)
		} else {
			if err := writeRequestYAML(out, it.res.Request); err != nil {
				return err
			}
			if err := writeArtifact(out, it.res.Artifacts[pipeline.FormatText]); err != nil {
				return err
			}
		}
		if archive != nil {
			rec := store.NewRecord(it.res)
			if err := archive.Save(ctx, &rec); err != nil {
				return err
			}
			logger.Debug("archived map", "id", rec.ID, "seed", seedOf(it.req))
		}
	}

	prog.done(fmt.Sprintf("Generated %d maps", len(items)-failed), "failed", failed)
	if failed == len(items) {
		return apperr.New(apperr.ErrCodeInfeasible, "all %d maps failed", failed)
	}
	return nil
}

// generateBatch runs count maps with at most jobs in flight. Results keep
// the seed order. Generation failures are reported per item; a cancelled
// context stops the batch.
func generateBatch(ctx context.Context, runner *pipeline.Runner, flags requestFlags, d config.Defaults,
	base uint64, count, jobs int, opts pipeline.Options) []batchItem {
	items := make([]batchItem, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i := range items {
		seed := base + uint64(i)
		g.Go(func() error {
			req, err := flags.build(d, &seed)
			items[i].req = req
			if err != nil {
				items[i].err = err
				return nil
			}
			items[i].res, items[i].err = runner.Execute(ctx, req, opts)
			return ctx.Err()
		})
	}
	_ = g.Wait()
	return items
}

func seedOf(req pipeline.Request) uint64 {
	if req.Seed == nil {
		return 0
	}
	return *req.Seed
}
