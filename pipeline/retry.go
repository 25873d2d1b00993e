package pipeline

import (
	"context"
	"time"
)

// Retry is an explicit retry policy: how many attempts, how long to wait
// between them, and which errors are worth retrying. Policies are plain
// values so they can be tested without the operations they govern.
type Retry struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff returns the delay after a failed attempt (1-based).
	// A nil Backoff means no delay.
	Backoff func(attempt int) time.Duration

	// Retryable reports whether an error should be retried. A nil
	// Retryable retries every error.
	Retryable func(err error) bool
}

// ExponentialBackoff returns a backoff function doubling from base:
// base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// FetchRetry is the default policy for whole-waterfall fetch attempts:
// 3 attempts with 1s/2s backoff. Bot detection is never retried; it is
// handled by tier escalation, not repetition.
func FetchRetry() Retry {
	return Retry{MaxAttempts: 3, Backoff: ExponentialBackoff(time.Second)}
}

// DiscoveryRetry is the default policy for oracle calls: 3 attempts with
// 1s/2s backoff before falling back to heuristic selectors.
func DiscoveryRetry() Retry {
	return Retry{MaxAttempts: 3, Backoff: ExponentialBackoff(time.Second)}
}

// Do runs op until it succeeds, exhausts attempts, or hits a
// non-retryable error. The last error is returned.
func (r Retry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if r.Retryable != nil && !r.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if r.Backoff != nil {
			delay = r.Backoff(attempt)
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}
