// Package cache provides pluggable byte caches used for upstream HTTP
// response revalidation storage.
//
// Three backends are provided:
//   - FileCache: sha256-sharded JSON files for single-process/CLI usage
//   - RedisCache: shared cache for multi-instance deployments
//   - NullCache: disables caching entirely
//
// All backends store opaque byte slices with a per-entry TTL. Keys are
// arbitrary strings; backends are responsible for making them safe for
// their storage medium.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
// The Cache interface itself reports misses via its boolean return.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface implemented by all cache backends.
//
// Get returns (data, true, nil) on a hit, (nil, false, nil) on a miss or
// expired entry, and a non-nil error only for backend failures. Set stores
// data under key for ttl; a ttl of 0 means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
