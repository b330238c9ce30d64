package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	pkgio "github.com/matzehuels/roomgrid/pkg/io"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		req     requestFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [map.json]",
		Short: "Browse the rooms of a map interactively",
		Long: `Browse the rooms of a map in the terminal. The selected room is
highlighted, linked rooms are green and unlinked neighbours yellow.

Without a file a map is generated from the flags:

  roomgrid inspect -w 12 -H 8 -r 9 -s 42
  roomgrid generate -f json -s 42 -o map.json && roomgrid inspect map.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return apperr.New(apperr.ErrCodeUnsupported, "inspect needs an interactive terminal")
			}
			m, err := c.loadInspectMap(cmd, args, req, noCache)
			if err != nil {
				return err
			}
			var seed uint64
			if m.Seed != nil {
				seed = *m.Seed
			}
			_, err = tea.NewProgram(NewRoomBrowser(m.Grid, m.Graph, seed), tea.WithAltScreen()).Run()
			return err
		},
	}

	req.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// loadInspectMap reads the map file when one is given and generates a map
// from the flags otherwise. A file without a graph gets one built.
func (c *CLI) loadInspectMap(cmd *cobra.Command, args []string, flags requestFlags, noCache bool) (pkgio.Map, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts := pipeline.Options{Formats: []string{pipeline.FormatTree}, SkipRender: true, Logger: logger}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return pkgio.Map{}, err
	}
	defer runner.Close()

	if len(args) == 1 {
		m, err := pkgio.ImportJSON(args[0])
		if err != nil {
			return m, err
		}
		if m.Graph == nil {
			var seed uint64
			if m.Seed != nil {
				seed = *m.Seed
			}
			if m.Graph, err = runner.BuildGraph(ctx, m.Grid, seed, opts); err != nil {
				return m, err
			}
		}
		logger.Debug("loaded map", "path", args[0], "rooms", m.Grid.RoomCount())
		return m, nil
	}

	req, err := flags.resolve(cmd, c.Config.Defaults)
	if err != nil {
		return pkgio.Map{}, err
	}
	res, err := runner.Execute(ctx, req, opts)
	if err != nil {
		return pkgio.Map{}, err
	}
	return pkgio.Map{Seed: res.Request.Seed, Grid: res.Grid, Graph: res.Graph}, nil
}
