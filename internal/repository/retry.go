package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy controls how often a failed read is attempted.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// RetryWithBackoff calls fn up to policy.Attempts times, sleeping Backoff, then
// 2*Backoff, 4*Backoff and so on between attempts. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, logger *zap.Logger, policy RetryPolicy, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := policy.Backoff << (attempt - 1)
			logger.Warn("retrying after failure",
				zap.String("op", "repository.RetryWithBackoff"),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry aborted after %d attempt(s): %w", attempt, ctx.Err())
			case <-timer.C:
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return fmt.Errorf("retry aborted after %d attempt(s): %w", attempt+1, err)
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}
