// concurrency/concurrency_test.go
package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_InvalidLimit(t *testing.T) {
	_, err := NewLimiter(0, nil)
	assert.Error(t, err)
}

func TestLimiter_CapsInFlight(t *testing.T) {
	l, err := NewLimiter(2, logger.NewNopLogger())
	require.NoError(t, err)

	var current, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background())
			require.NoError(t, err)
			defer release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	m := l.Metrics()
	assert.EqualValues(t, 10, m.TotalRequests)
	assert.Zero(t, m.InFlight)
	assert.Equal(t, 2, m.Limit)
}

func TestLimiter_AcquireHonoursContext(t *testing.T) {
	l, err := NewLimiter(1, logger.NewNopLogger())
	require.NoError(t, err)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()
	assert.Zero(t, l.Metrics().InFlight, "release is idempotent")
}
