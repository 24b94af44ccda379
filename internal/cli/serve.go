package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/internal/server"
	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/observability/prom"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noUploads bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

The server renders stories, lists templates and elements, stores documents in
the configured store and accepts logo and background uploads. Prometheus
metrics are served on /metrics unless disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, _, err := c.newRunner(ctx, runnerOpts{store: true})
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{Runner: runner, Logger: c.Logger}
			if !noUploads {
				up, err := c.newUploader()
				if err != nil {
					return err
				}
				opts.Uploader = up
				c.Logger.Debug("uploads enabled", "dir", up.Dir())
			}
			if c.Config.Server.Metrics && !noMetrics {
				m := prom.New()
				m.Register()
				opts.Metrics = m
			}

			printInfo("Serving on %s", addr)
			cacheStatus := c.Config.Cache.Backend
			if reason, off := cache.Disabled(runner.Cache); off {
				cacheStatus = "off (" + reason + ")"
			}
			printDetail("cache: %s, store: %s", cacheStatus, c.Config.Store.Backend)
			return server.New(opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	cmd.Flags().BoolVar(&noUploads, "no-uploads", false, "disable /v1/uploads")

	return cmd
}
