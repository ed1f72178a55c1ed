package artifacts

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fixfx/artifactd/pkg/github"
	"github.com/fixfx/artifactd/pkg/observability"
)

// FreshnessWindow is how long a published snapshot is served without
// attempting a refresh.
const FreshnessWindow = time.Hour

// Store is the process-wide synchronization cache. It publishes immutable
// snapshots behind an atomic pointer: readers always get either the previous
// complete snapshot or a new complete one, never a partial catalog.
//
// Only one refresh cycle runs at a time. Queries arriving while a refresh is
// in flight are served the current snapshot without blocking.
type Store struct {
	syncer *Syncer
	window time.Duration
	logger *log.Logger
	now    func() time.Time

	snapshot atomic.Pointer[Snapshot]

	mu         sync.Mutex // guards refreshing
	refreshing bool
}

// NewStore creates an empty store refreshed by syncer.
// Pass a nil logger to silence output.
func NewStore(syncer *Syncer, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		syncer: syncer,
		window: FreshnessWindow,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns the currently published snapshot, or nil when the store
// has never been populated.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Fresh reports whether the published snapshot is inside the freshness window.
func (s *Store) Fresh() bool {
	snap := s.snapshot.Load()
	return snap != nil && s.now().Sub(snap.FetchedAt) < s.window
}

// Ensure returns a usable snapshot, refreshing first when the freshness
// window has elapsed. It never returns nil and never surfaces upstream
// errors: on any failure it degrades to the previous snapshot, and to the
// fallback dataset when none exists.
func (s *Store) Ensure(ctx context.Context) *Snapshot {
	snap := s.snapshot.Load()
	if snap != nil && s.now().Sub(snap.FetchedAt) < s.window {
		return snap
	}

	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		// Another goroutine owns the refresh; serve what we have. With no
		// prior snapshot there is nothing to serve yet, so hand out the
		// fallback dataset without publishing it.
		if snap != nil {
			return snap
		}
		return FallbackSnapshot(s.now())
	}
	s.refreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	return s.refresh(ctx, snap)
}

// refresh runs one sync cycle and publishes its outcome.
func (s *Store) refresh(ctx context.Context, prev *Snapshot) *Snapshot {
	etag := ""
	if prev != nil {
		etag = prev.ETag
	}

	next, err := s.syncer.Run(ctx, etag)
	switch {
	case err == nil:
		s.snapshot.Store(next)
		return next

	case errors.Is(err, errNotModified):
		// Upstream unchanged; the previous snapshot stays authoritative and
		// its age is untouched, so the next query revalidates again cheaply.
		if prev != nil {
			s.logger.Debug("tag list unchanged, serving previous snapshot")
			return prev
		}
		// A 304 with no prior snapshot means a stale token with nothing to
		// serve; drop the token and resync immediately.
		s.logger.Warn("not-modified response with empty cache, retrying without etag")
		if next, err := s.syncer.Run(ctx, ""); err == nil {
			s.snapshot.Store(next)
			return next
		}
		return s.applyFallback(ctx, "empty resync after 304")

	case errors.Is(err, github.ErrAuth):
		s.logger.Error("sync aborted: upstream authentication failed")
		if prev != nil {
			return prev
		}
		return s.applyFallback(ctx, "auth failure with empty cache")

	default:
		s.logger.Warn("sync failed", "err", err)
		if prev != nil {
			return prev
		}
		return s.applyFallback(ctx, "sync failure with empty cache")
	}
}

// applyFallback publishes the fallback dataset as a fresh snapshot. Counting
// it as a valid cache fill keeps repeated failures from hammering upstream
// on every request; it is retried only after the freshness window elapses.
func (s *Store) applyFallback(ctx context.Context, reason string) *Snapshot {
	observability.Sync().OnFallback(ctx, reason)
	s.logger.Warn("applying fallback dataset", "reason", reason)
	snap := FallbackSnapshot(s.now())
	s.snapshot.Store(snap)
	return snap
}
