package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Repo != "citizenfx/fivem" {
		t.Errorf("Repo = %q", cfg.Repo)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifactd.toml")
	content := `
addr = "127.0.0.1:9000"
repo = "someone/fork"

[cache]
backend = "redis"
redis_addr = "redis-host:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Repo != "someone/fork" {
		t.Errorf("Repo = %q", cfg.Repo)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "redis-host:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr == "" || cfg.Repo == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("ARTIFACTD_ADDR", ":7070")
	t.Setenv("ARTIFACTD_REPO", "env/repo")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Repo != "env/repo" {
		t.Errorf("Repo = %q", cfg.Repo)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestCacheDirectoryOverride(t *testing.T) {
	c := CacheConfig{Dir: "/tmp/custom"}
	dir, err := c.Directory()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/custom" {
		t.Errorf("Directory = %q", dir)
	}
}

func TestCacheDirectoryXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := CacheConfig{}.Directory()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("Directory = %q", dir)
	}
}
