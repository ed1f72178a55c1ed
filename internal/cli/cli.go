// Package cli implements the artifactd command-line interface.
//
// This package provides commands for serving the artifact query API,
// listing artifacts in the terminal, browsing them interactively, and
// managing the upstream response cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP query API
//   - list: Synchronize once and print the artifact catalog
//   - browse: Interactive artifact browser
//   - cache: Manage the upstream response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fixfx/artifactd/pkg/artifacts"
	"github.com/fixfx/artifactd/pkg/buildinfo"
	"github.com/fixfx/artifactd/pkg/cache"
	"github.com/fixfx/artifactd/pkg/config"
	"github.com/fixfx/artifactd/pkg/github"
)

// appName is the application name used for directories and display.
const appName = "artifactd"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "artifactd tracks FXServer build artifacts and their support status",
		Long:         `artifactd synchronizes FXServer build-artifact metadata from the upstream repository, derives a support-lifecycle status for every version, and serves the result over HTTP or in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for a command run.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Store Factory
// =============================================================================

// newStore builds the synchronization store from the configuration.
func (c *CLI) newStore(ctx context.Context, cfg config.Config, noCache bool) (*artifacts.Store, error) {
	responseCache, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	client := github.NewClient(cfg.Token, responseCache)
	syncer := artifacts.NewSyncer(client, cfg.Repo, c.Logger)
	return artifacts.NewStore(syncer, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, appName)
	default:
		dir, err := cfg.Cache.Directory()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}
