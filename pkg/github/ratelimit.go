package github

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// RateLimit is a point-in-time snapshot of the upstream quota state.
type RateLimit struct {
	Remaining int       // requests left in the current window
	Reset     time.Time // instant at which the window resets
}

// rateLimitState holds the latest snapshot behind an atomic pointer so that
// readers never observe a torn {remaining, reset} pair.
type rateLimitState struct {
	current atomic.Pointer[RateLimit]
}

func newRateLimitState(initial int) *rateLimitState {
	s := &rateLimitState{}
	s.current.Store(&RateLimit{Remaining: initial})
	return s
}

// Snapshot returns the last observed quota state.
func (s *rateLimitState) Snapshot() RateLimit {
	return *s.current.Load()
}

// Update parses x-ratelimit-remaining and x-ratelimit-reset from h and
// publishes a new snapshot. Missing or malformed headers keep the previous
// values for the corresponding field.
func (s *rateLimitState) Update(h http.Header) RateLimit {
	prev := s.current.Load()
	next := *prev

	if raw := h.Get("x-ratelimit-remaining"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			next.Remaining = n
		}
	}
	if raw := h.Get("x-ratelimit-reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			next.Reset = time.Unix(unix, 0)
		}
	}

	s.current.Store(&next)
	return next
}
