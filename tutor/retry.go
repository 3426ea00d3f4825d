package tutor

import (
	"context"
	"time"
)

const (
	llmAttempts    = 2
	initialBackoff = 500 * time.Millisecond
)

// withRetry runs fn up to attempts times with doubling backoff. The last
// error is returned when every attempt fails or the context dies.
func withRetry[T any](ctx context.Context, attempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := initialBackoff
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return zero, lastErr
}
