package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/liegraph/internal/server"
	"github.com/matzehuels/liegraph/pkg/metrics"
	"github.com/matzehuels/liegraph/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve starts an HTTP service that renders snapshots posted to /v1/render.
It also exposes /healthz and Prometheus metrics on /metrics.`,
		Example: `  liegraph serve --addr :9090
  curl -s --data-binary @fabric.json 'localhost:9090/v1/render?format=svg' > fabric.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Serve
			if addr != "" {
				cfg.Addr = addr
			}

			reg := metrics.NewRegistry()
			reg.Install()

			runner := c.newRunner(noCache)
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:         cfg.Addr,
				MaxBodyBytes: cfg.MaxBodyBytes,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				Defaults: pipeline.Options{
					Formats:   c.cfg.Render.Formats,
					ColorMode: c.cfg.Render.ColorMode,
					RankDir:   c.cfg.Render.RankDir,
					CacheTTL:  c.cfg.Cache.TTL,
				},
			}, runner, reg, c.Logger)

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the rendered-artifact cache")

	return cmd
}
