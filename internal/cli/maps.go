package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomgrid/internal/config"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/store"
)

// mapsCommand creates the map archive command.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "List, show and delete archived maps",
		Long: `Manage maps archived with --save or POST /maps.

The archive backend is set in the config file; with the memory backend
nothing outlives the process.`,
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsShowCommand())
	cmd.AddCommand(c.mapsDeleteCommand())

	return cmd
}

func (c *CLI) mapsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived maps, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.warnMemoryStore()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			recs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No archived maps")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), recordTable(recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of maps")
	return cmd
}

func (c *CLI) mapsShowCommand() *cobra.Command {
	var (
		format string
		color  string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an archived map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			c.warnMemoryStore()

			if err := store.ValidateID(args[0]); err != nil {
				return err
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			useColor, err := colorEnabled(color, out)
			if err != nil {
				return err
			}

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			g, err := rec.Map()
			if err != nil {
				return err
			}

			printKeyValue(out, "id", rec.ID)
			printKeyValue(out, "created", rec.CreatedAt.Local().Format(time.RFC3339))
			printKeyValue(out, "size", fmt.Sprintf("%dx%d", g.Width(), g.Height()))
			printKeyValue(out, "rooms", strconv.Itoa(g.RoomCount()))
			printKeyValue(out, "seed", strconv.FormatUint(rec.Seed(), 10))
			fmt.Fprintln(out)

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			padding := c.Config.Defaults.Padding
			opts := pipeline.Options{
				Formats: []string{format},
				Color:   useColor && !binaryFormats[format],
				Padding: &padding,
				Logger:  loggerFromContext(ctx),
			}
			gr := rec.Graph
			if gr == nil {
				if gr, err = runner.BuildGraph(ctx, g, rec.Seed(), opts); err != nil {
					return err
				}
			}
			artifacts, err := runner.Render(ctx, g, gr, rec.Seed(), opts)
			if err != nil {
				return err
			}
			return writeArtifact(out, artifacts[format])
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "render format")
	cmd.Flags().StringVar(&color, "color", colorAuto, "ANSI colours: auto, always, never")
	return cmd
}

func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := store.ValidateID(args[0]); err != nil {
				return err
			}
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted map %s", args[0])
			return nil
		},
	}
}

func (c *CLI) warnMemoryStore() {
	if c.Config.Store.Backend == config.StoreMemory {
		printWarning("store backend is memory; the archive is empty on every run")
	}
}

// recordTable formats records as a table, one row per map.
func recordTable(recs []store.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%dx%d", r.Request.Width, r.Request.Height),
			strconv.Itoa(r.Request.RoomCount),
			strconv.FormatUint(r.Seed(), 10),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Size", "Rooms", "Seed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
