// internal/edgar/ratelimit_test.go
package edgar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacesRequests(t *testing.T) {
	limiter := NewLimiter(100) // 10ms interval
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	elapsed := time.Since(start)

	// first slot is immediate, the next two wait one interval each
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestLimiterFirstRequestIsImmediate(t *testing.T) {
	limiter := NewLimiter(1) // 1s interval

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiterHonorsContextCancellation(t *testing.T) {
	limiter := NewLimiter(0.5) // 2s interval
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))

	cancelled, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(cancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiterDefaultsOnBadRate(t *testing.T) {
	limiter := NewLimiter(0)
	assert.Equal(t, 100*time.Millisecond, limiter.Interval())

	limiter = NewLimiter(-3)
	assert.Equal(t, 100*time.Millisecond, limiter.Interval())
}
