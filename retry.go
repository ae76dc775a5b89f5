package rangeget

import (
	"context"
	"time"
)

// ShouldRetry decides whether a failed attempt is worth retrying. A nil
// ShouldRetry is treated as "always retry".
type ShouldRetry func(err error) bool

// WithRetry runs block at least once. On failure, it retries while the
// attempt index is below maxRetries and shouldRetry(err) holds, sleeping
// initialDelay and doubling it after each attempt (capped at maxDelay when
// maxDelay > 0). Total attempts on persistent failure is maxRetries+1. The
// sleep is the only suspension point besides block itself, and is preempted
// by ctx cancellation, which aborts without a further attempt.
func WithRetry[T any](ctx context.Context, maxRetries int, initialDelay, maxDelay time.Duration, shouldRetry ShouldRetry, block func() (T, error)) (T, error) {
	var zero T
	delay := initialDelay

	for attempt := 0; ; attempt++ {
		val, err := block()
		if err == nil {
			return val, nil
		}

		if attempt >= maxRetries || (shouldRetry != nil && !shouldRetry(err)) {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}
	}
}
