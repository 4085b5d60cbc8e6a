// Package resilience holds transport-agnostic failure handling used around
// the embedding provider.
package resilience

import (
	"context"
	"time"
)

// maxBackoff caps the exponential delay between retries, matching the
// provider's cold-model warm-up window.
const maxBackoff = 6 * time.Second

// Backoff returns the delay before retry attempt n (0-based): 1s, 2s, 4s,
// then capped at maxBackoff.
func Backoff(attempt int) time.Duration {
	if attempt > 3 {
		attempt = 3
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// Retry runs fn up to retries+1 times with exponential backoff. It stops
// early when permanent reports the error as non-retryable, or when ctx is
// done. The last error is returned.
func Retry(ctx context.Context, retries int, permanent func(error) bool, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return lastErr
		}
		if attempt == retries {
			break
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
