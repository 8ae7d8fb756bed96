package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
)

// WithLockRetry runs fn and retries it while the failure is a file
// lock. Any other error is surfaced immediately. Attempts are bounded
// by cfg.MaxAttempts with fixed or exponential backoff; fn must be
// deterministic so a retried upload carries the exact same payload.
func WithLockRetry(ctx context.Context, cfg *config.RetryConfig, logger *zap.Logger, fn func() error) error {
	delay := cfg.Delay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsLocked(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn("workbook locked, waiting to retry",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if cfg.Backoff == "exponential" {
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return fmt.Errorf("workbook still locked after %d attempts: %w", cfg.MaxAttempts, err)
}
