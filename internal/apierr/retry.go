package apierr

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds RetryWithBackoff. MaxRetries counts the retries after
// the first attempt, so 0 still runs the function once. Out-of-range values
// are normalized rather than rejected.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// normalize clamps invalid fields: negative MaxRetries becomes 0, a
// non-positive BaseDelay becomes 1ms, a non-positive MaxDelay inherits
// BaseDelay.
func (c *RetryConfig) normalize() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = c.BaseDelay
	}
}

// RetryWithBackoff runs fn until it succeeds, shouldRetry rejects its error,
// or the retries are exhausted. The delay doubles per attempt up to MaxDelay,
// and a canceled context cuts a wait short. The first attempt always runs;
// cancellation is only checked while waiting.
func RetryWithBackoff[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	cfg.normalize()

	var zero T
	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return zero, ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, cfg.MaxDelay)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !shouldRetry(lastErr) {
			return zero, lastErr
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}
