package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomgrid/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map API over HTTP",
		Long: `Run the HTTP API. Generation defaults, the cache and the map store
come from the config file.

  GET  /grid?width=12&height=8&roomCount=6&seed=42
  GET  /graph?seed=42&format=dot
  POST /maps
  GET  /maps/{id}/render?format=svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			srv := server.New(runner, st,
				server.WithLogger(logger),
				server.WithDefaults(c.Config.Request(), c.Config.Defaults.Padding),
				server.WithMaxCells(c.Config.Server.MaxCells),
			)
			printInfo("Listening on %s", addr)
			printDetail("store: %s, cache: %s", c.Config.Store.Backend, c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
