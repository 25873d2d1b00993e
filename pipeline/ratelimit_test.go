package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements yosoi.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ yosoi.DomainLimiter = pipeline.NewDomainLimiter(time.Second)
	})

	t.Run("first request is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(time.Second)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 100*time.Millisecond)
	})

	t.Run("enforces minimum spacing between requests to one domain", func(t *testing.T) {
		t.Parallel()

		const minDelay = 50 * time.Millisecond
		limiter := pipeline.NewDomainLimiter(minDelay)

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		last := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
			spacing := time.Since(last)
			last = time.Now()
			// Small tolerance for timer granularity.
			assert.GreaterOrEqual(t, spacing, minDelay-5*time.Millisecond,
				"inter-request spacing must never drop below the minimum delay")
		}
	})

	t.Run("different domains do not block each other", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(time.Second)

		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("escalates delay once the per-minute threshold is exceeded", func(t *testing.T) {
		t.Parallel()

		const minDelay = 10 * time.Millisecond
		limiter := pipeline.NewDomainLimiter(minDelay, pipeline.WithBurstThreshold(2))

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		// Third request is one over the threshold: at least 2x the base
		// delay on top of the bucket's own spacing.
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 2*minDelay)
	})

	t.Run("returns error when context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(time.Minute)

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx, "example.com")
		assert.Error(t, err)
	})
}
