// Package httputil provides shared HTTP helpers: a retryable-error marker
// and a reusable exponential-backoff retry policy.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses, rate-limit
// rejections) with this type so that [Policy.Do] knows to attempt the
// operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy describes an exponential-backoff retry schedule.
// The zero value is not useful; use [DefaultPolicy] or construct explicitly.
type Policy struct {
	Attempts   int           // total attempts, including the first (min 1)
	Delay      time.Duration // delay before the second attempt
	Multiplier float64       // backoff factor applied after each failure
}

// DefaultPolicy returns the standard policy: 3 attempts, 1 second initial
// delay, doubling each retry.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Delay: time.Second, Multiplier: 2}
}

// Do executes fn according to the policy. Only errors wrapped with
// [RetryableError] are retried; other errors are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if the context
// is cancelled while waiting between attempts.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.Multiplier)
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Policy.Do] using
// [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy().Do(ctx, fn)
}

// Sleep pauses for d or until ctx is cancelled, whichever comes first.
// It returns ctx.Err() when the context won. Used for the fixed
// inter-request and inter-batch delays during sync cycles.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
