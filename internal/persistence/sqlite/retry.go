package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/frontdesk-log/internal/persistence"
)

// RetryConfig configures retry behavior for writes that hit a locked database.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the retry settings used by Open.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
}

// withRetry runs fn until it succeeds, fails with a non-busy error, or the
// retry budget is spent. Errors are returned already mapped.
func (c RetryConfig) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := c.InitialDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * c.BackoffFactor)
				if delay > c.MaxDelay {
					delay = c.MaxDelay
				}
			}
		}

		lastErr = mapError(fn())
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, persistence.ErrStorageBusy) {
			return lastErr
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", c.MaxRetries, lastErr)
}
