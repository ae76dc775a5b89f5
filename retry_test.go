package rangeget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestWithRetry_PersistentFailureCallsBlockMaxRetriesPlusOne(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), 3, time.Millisecond, 0, nil, func() (int, error) {
		attempts++
		return 0, errBoom
	})
	require.Error(t, err)
	assert.Equal(t, 4, attempts)
}

func TestWithRetry_ZeroMaxRetriesIsExactlyOneAttempt(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), 0, time.Millisecond, 0, nil, func() (int, error) {
		attempts++
		return 0, errBoom
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	val, err := WithRetry(context.Background(), 5, time.Millisecond, 0, nil, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errBoom
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_ShouldRetryRejectsNonMatchingErrorImmediately(t *testing.T) {
	attempts := 0
	shouldRetry := func(err error) bool { return false }

	_, err := WithRetry(context.Background(), 5, time.Millisecond, 0, shouldRetry, func() (int, error) {
		attempts++
		return 0, errBoom
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ShouldRetryOnlyMatchesTaggedErrors(t *testing.T) {
	attempts := 0
	_, err := WithRetry(context.Background(), 5, time.Millisecond, 0, IsNetworkError, func() (int, error) {
		attempts++
		return 0, NewChunkSizeMismatch(10, 5, "bytes=0-9")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, IsChunkSizeMismatch(err))
}

func TestWithRetry_BackoffDoublesAndIsCapped(t *testing.T) {
	attempts := 0
	start := time.Now()
	_, err := WithRetry(context.Background(), 3, 5*time.Millisecond, 8*time.Millisecond, nil, func() (int, error) {
		attempts++
		return 0, errBoom
	})
	elapsed := time.Since(start)
	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	// Uncapped delays would be 5+10+20=35ms; capped at 8ms each gives 5+8+8=21ms.
	assert.GreaterOrEqual(t, elapsed, 18*time.Millisecond)
	assert.Less(t, elapsed, 100*time.Millisecond)
}

func TestWithRetry_CancellationPreemptsSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, 10, time.Hour, 0, nil, func() (int, error) {
		attempts++
		return 0, errBoom
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
}
