// Package git provides git and GitHub operations for syncer.
// This file implements shared retry logic for hosting-platform operations.
package git

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/dev-users/syncer/internal/constants"
)

// RetryConfig controls retry behavior for GitHub operations.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first).
	MaxAttempts int
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts.
	Multiplier float64
	// JitterFactor randomizes delays to avoid synchronized retry storms.
	// 0.2 means +/- 20% of the base delay.
	JitterFactor float64
}

// DefaultRetryConfig returns the standard retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  constants.MaxRetryAttempts,
		InitialDelay: constants.InitialBackoff,
		MaxDelay:     constants.MaxBackoff,
		Multiplier:   constants.BackoffMultiplier,
		JitterFactor: 0.2,
	}
}

// RetryableOperation defines the interface for operations that can be retried.
type RetryableOperation[R any] interface {
	// Attempt performs a single attempt and returns the result.
	// success indicates if the attempt succeeded.
	Attempt(ctx context.Context, attempt int) (result R, success bool, err error)

	// ShouldRetry returns true if the operation should be retried given the error.
	ShouldRetry(err error) bool

	// OnRetryWait is called before waiting for the next retry (optional logging/progress).
	OnRetryWait(attempt int, delay time.Duration)
}

// ExecuteWithRetry executes an operation with retry logic based on the provided config.
// Returns the result, total attempts made, and any final error.
func ExecuteWithRetry[R any](
	ctx context.Context,
	config RetryConfig,
	op RetryableOperation[R],
	_ zerolog.Logger,
) (result R, attempts int, finalErr error) {
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attempts = attempt

		res, success, err := op.Attempt(ctx, attempt)
		if success {
			return res, attempts, nil
		}

		result = res
		finalErr = err

		if !op.ShouldRetry(err) {
			break
		}

		if attempt < config.MaxAttempts {
			wait := addJitter(delay, config.JitterFactor)
			op.OnRetryWait(attempt, wait)

			select {
			case <-ctx.Done():
				return result, attempts, ctx.Err()
			case <-time.After(wait):
			}

			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return result, attempts, finalErr
}

// SimpleRetryOperation provides a simplified implementation for common cases.
type SimpleRetryOperation[R any] struct {
	AttemptFunc     func(ctx context.Context, attempt int) (R, bool, error)
	ShouldRetryFunc func(err error) bool
	OnRetryWaitFunc func(attempt int, delay time.Duration)
}

// Attempt implements RetryableOperation.
func (s *SimpleRetryOperation[R]) Attempt(ctx context.Context, attempt int) (R, bool, error) {
	return s.AttemptFunc(ctx, attempt)
}

// ShouldRetry implements RetryableOperation.
func (s *SimpleRetryOperation[R]) ShouldRetry(err error) bool {
	if s.ShouldRetryFunc == nil {
		return false
	}
	return s.ShouldRetryFunc(err)
}

// OnRetryWait implements RetryableOperation.
func (s *SimpleRetryOperation[R]) OnRetryWait(attempt int, delay time.Duration) {
	if s.OnRetryWaitFunc != nil {
		s.OnRetryWaitFunc(attempt, delay)
	}
}

// Compile-time interface check.
var _ RetryableOperation[any] = (*SimpleRetryOperation[any])(nil)

// addJitter adds random jitter to a duration to prevent synchronized retry storms.
// The factor determines the jitter range: 0.2 means +/- 20% of the base duration.
func addJitter(d time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return d
	}
	jitterRatio := (rand.Float64()*2 - 1) * factor //nolint:gosec // Non-cryptographic use for jitter
	jitter := time.Duration(float64(d) * jitterRatio)
	return d + jitter
}
