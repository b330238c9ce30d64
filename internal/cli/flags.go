package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/roomgrid/internal/config"
	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Color modes for --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// requestFlags are the generation flags shared by generate, graph and
// inspect. Dimensions are kept as strings so they can be ranges.
type requestFlags struct {
	width      string
	height     string
	rooms      string
	seed       uint64
	pickMethod string
	method     string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.width, "width", "w", "", "columns: N or min,max (default from config)")
	fl.StringVarP(&f.height, "height", "H", "", "rows: N or min,max (default from config)")
	fl.StringVarP(&f.rooms, "rooms", "r", "", "room count: N or min,max (default from config)")
	fl.Uint64VarP(&f.seed, "seed", "s", 0, "random seed (default: fresh seed per run)")
	fl.StringVarP(&f.pickMethod, "pick-method", "m", "", "growth pick method: prefer-closer, closest, random")
	fl.StringVar(&f.method, "method", "", "generator: growth, naive")
}

// resolve builds the request from the flags over the configured defaults.
// Ranges are drawn from a generator seeded with --seed, or with a fresh seed
// when none is given.
func (f *requestFlags) resolve(cmd *cobra.Command, d config.Defaults) (pipeline.Request, error) {
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		return f.build(d, &seed)
	}
	return f.build(d, nil)
}

// build resolves the flags with an explicit seed, which may be nil.
func (f *requestFlags) build(d config.Defaults, seed *uint64) (pipeline.Request, error) {
	req := pipeline.Request{Seed: seed}

	var dims *rng.Rand
	draw := func() rng.Source {
		if dims == nil {
			if req.Seed != nil {
				dims = rng.New(*req.Seed)
			} else {
				dims = rng.NewRandom()
			}
		}
		return dims
	}

	var err error
	if req.Width, err = parseDimension("width", f.width, d.Width, draw); err != nil {
		return req, err
	}
	if req.Height, err = parseDimension("height", f.height, d.Height, draw); err != nil {
		return req, err
	}
	if req.RoomCount, err = parseDimension("rooms", f.rooms, d.RoomCount, draw); err != nil {
		return req, err
	}
	if cells := req.Cells(); isRange(f.rooms) && cells > 0 && req.RoomCount > cells {
		req.RoomCount = cells
	}

	pick := f.pickMethod
	if pick == "" {
		pick = d.PickMethod
	}
	if req.PickMethod, err = cellgen.ParsePickMethod(pick); err != nil {
		return req, err
	}
	method := f.method
	if method == "" {
		method = d.Method
	}
	if req.Method, err = cellgen.ParseMethod(method); err != nil {
		return req, err
	}
	return req, req.Validate()
}

func isRange(s string) bool {
	return strings.Contains(s, ",")
}

// parseDimension reads "N" or "min,max". An empty value yields def; a range
// is drawn uniformly, bounds inclusive.
func parseDimension(name, s string, def int, draw func() rng.Source) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if !isRange(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperr.New(apperr.ErrCodeInvalidInput, "--%s must be N or min,max, got %q", name, s)
		}
		return n, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "--%s range must be min,max, got %q", name, s)
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "--%s range must be two integers, got %q", name, s)
	}
	if lo > hi {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "--%s range %d,%d is empty", name, lo, hi)
	}
	return rng.Natural(draw(), lo, hi), nil
}

// colorEnabled decides whether ANSI colours are written to w. Auto mode
// requires a terminal and an unset NO_COLOR.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case colorAlways:
		return true, nil
	case colorNever:
		return false, nil
	case colorAuto, "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, apperr.New(apperr.ErrCodeInvalidInput, "--color must be auto, always or never, got %q", mode)
}

// writeRequestYAML prints req as a YAML document.
func writeRequestYAML(w io.Writer, req pipeline.Request) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	_, err = fmt.Fprintf(w, "---\n%s---\n", data)
	return err
}
