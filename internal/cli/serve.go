package cli

import (
	"github.com/spf13/cobra"

	"github.com/fixfx/artifactd/internal/server"
	"github.com/fixfx/artifactd/pkg/config"
)

// serveCommand creates the serve command running the HTTP query API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		cacheDir  string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the artifact query API",
		Long: `Start the HTTP server exposing the artifact catalog.

The server synchronizes from the upstream repository on demand, keeps the
result for one hour, and serves GET /api/artifacts with filter, sort, and
pagination parameters. GET /healthz reports liveness and cache freshness.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cacheDir != "" {
				cfg.Cache.Backend = config.BackendFile
				cfg.Cache.Dir = cacheDir
			}
			if redisAddr != "" {
				cfg.Cache.Backend = config.BackendRedis
				cfg.Cache.RedisAddr = redisAddr
			}

			store, err := c.newStore(ctx, cfg, noCache)
			if err != nil {
				return err
			}

			// Warm the cache so the first request doesn't pay for a full
			// sync cycle.
			go store.Ensure(ctx)

			return server.New(store, cfg.Addr, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "use a file response cache in this directory")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a redis response cache at this address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the upstream response cache")
	return cmd
}
