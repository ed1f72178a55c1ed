// Package config loads the artifactd configuration from an optional TOML
// file, environment variables, and built-in defaults, in that order of
// increasing precedence for the token and addresses.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is used for default directory names.
const appName = "artifactd"

// Cache backend names accepted in [cache].backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full artifactd configuration.
type Config struct {
	// Addr is the HTTP listen address for the serve command.
	Addr string `toml:"addr"`

	// Repo is the upstream GitHub repository ("owner/name").
	Repo string `toml:"repo"`

	// Token is the GitHub bearer token. Prefer the GITHUB_TOKEN environment
	// variable over storing it in the file.
	Token string `toml:"token"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the upstream response cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis, or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Addr: ":8080",
		Repo: "citizenfx/fivem",
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads the configuration file at path and applies environment
// overrides. An empty path skips the file entirely; a missing file at an
// explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("ARTIFACTD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ARTIFACTD_REPO"); v != "" {
		c.Repo = v
	}
	if v := os.Getenv("ARTIFACTD_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate checks the configuration for values no component can act on.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("config: unknown cache backend %q (want %s, %s, or %s)",
			c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	if c.Repo == "" {
		return fmt.Errorf("config: repo must not be empty")
	}
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	return nil
}

// Directory resolves the cache directory for the file backend, following
// the XDG convention (~/.cache/artifactd/) unless overridden.
func (c CacheConfig) Directory() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
