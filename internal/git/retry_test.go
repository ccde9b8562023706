// Package git provides git and GitHub operations for syncer.
package git

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAttemptFailed = errors.New("attempt failed")

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, time.Second, config.InitialDelay)
	assert.Equal(t, 30*time.Second, config.MaxDelay)
	assert.InDelta(t, 2.0, config.Multiplier, 0.001)
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		op := &SimpleRetryOperation[string]{
			AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
				return "ok", true, nil
			},
		}

		result, attempts, err := ExecuteWithRetry(context.Background(), fastRetryConfig(), op, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, attempts)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		op := &SimpleRetryOperation[int]{
			AttemptFunc: func(_ context.Context, attempt int) (int, bool, error) {
				calls++
				if attempt < 3 {
					return 0, false, errAttemptFailed
				}
				return 42, true, nil
			},
			ShouldRetryFunc: func(error) bool { return true },
		}

		result, attempts, err := ExecuteWithRetry(context.Background(), fastRetryConfig(), op, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when not retryable", func(t *testing.T) {
		calls := 0
		op := &SimpleRetryOperation[string]{
			AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
				calls++
				return "", false, errAttemptFailed
			},
			ShouldRetryFunc: func(error) bool { return false },
		}

		_, attempts, err := ExecuteWithRetry(context.Background(), fastRetryConfig(), op, zerolog.Nop())
		require.ErrorIs(t, err, errAttemptFailed)
		assert.Equal(t, 1, attempts)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		waits := 0
		op := &SimpleRetryOperation[string]{
			AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
				return "", false, errAttemptFailed
			},
			ShouldRetryFunc: func(error) bool { return true },
			OnRetryWaitFunc: func(int, time.Duration) { waits++ },
		}

		_, attempts, err := ExecuteWithRetry(context.Background(), fastRetryConfig(), op, zerolog.Nop())
		require.ErrorIs(t, err, errAttemptFailed)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 2, waits)
	})

	t.Run("honors cancellation between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		op := &SimpleRetryOperation[string]{
			AttemptFunc: func(_ context.Context, _ int) (string, bool, error) {
				cancel()
				return "", false, errAttemptFailed
			},
			ShouldRetryFunc: func(error) bool { return true },
		}

		config := fastRetryConfig()
		config.InitialDelay = time.Minute

		_, _, err := ExecuteWithRetry(ctx, config, op, zerolog.Nop())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAddJitter(t *testing.T) {
	t.Run("zero factor returns base", func(t *testing.T) {
		assert.Equal(t, time.Second, addJitter(time.Second, 0))
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		base := time.Second
		for i := 0; i < 100; i++ {
			d := addJitter(base, 0.2)
			assert.GreaterOrEqual(t, d, 800*time.Millisecond)
			assert.LessOrEqual(t, d, 1200*time.Millisecond)
		}
	})
}
