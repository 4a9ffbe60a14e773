package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartolab/riverlabel/internal/server"
	"github.com/cartolab/riverlabel/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string
	listenAddr string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Exposes label placement over HTTP:

  POST /api/place-label          compute the optimal placement
  POST /api/compare-algorithms   score all three strategies
  GET  /api/runs                 list recent placement runs
  GET  /health                   health check

Configuration is read from a TOML file when --config is given; flags
override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVar(&opts.listenAddr, "listen", "", "listen address (overrides config)")

	return cmd
}

// runServe loads configuration, wires the cache, store, and pipeline, and
// serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.listenAddr != "" {
		cfg.ListenAddr = opts.listenAddr
	}

	resultCache, err := server.BuildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, err := server.BuildStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	if st != nil {
		defer st.Close(context.Background())
	}

	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server", "addr", cfg.ListenAddr, "cache", cfg.Cache.Backend)
	srv := server.New(cfg, runner, st, c.Logger)
	return srv.ListenAndServe(ctx)
}
