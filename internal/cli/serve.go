package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhebbeker/doxygen/pkg/observability"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
	"github.com/dhebbeker/doxygen/pkg/server"
)

// serveCommand creates the serve command, which exposes a project over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   graphFlags
		addr    string
		noCache bool
		watch   bool
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve directory graphs over HTTP",
		Long: `Serve directory graphs over HTTP.

With --watch the manifest is reloaded whenever it changes on disk.
With --metrics Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var opts []server.Option
			if metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				observability.NewMetricsHooks(reg).Register()
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(reg))
			}
			srv := server.New(p, runner, cfg.GraphOptions(), logger, opts...)

			printInfo("Serving %s on %s", c.manifest, StyleLink.Render("http://"+displayAddr(addr)))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(gctx, addr) })
			if watch {
				g.Go(func() error {
					return pipeline.Watch(gctx, c.manifest, logger, srv.SetProject)
				})
			}
			return g.Wait()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the manifest when it changes")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics on /metrics")
	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
