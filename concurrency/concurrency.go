// concurrency/concurrency.go
/* Package concurrency caps the number of requests a tenant has in flight at once. Jamf Pro
recommends no more than five concurrent API calls per client; the cap is enforced with a
semaphore that callers acquire before sending and release once the response headers arrive. */
package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deploymenttheory/go-jamfpi/logger"
	"go.uber.org/zap"
)

// DefaultMaxConcurrentRequests is the limit recommended for Jamf Pro.
const DefaultMaxConcurrentRequests = 5

// Metrics summarizes permit usage.
type Metrics struct {
	TotalRequests  int64
	PermitWaitTime time.Duration
	InFlight       int
	Limit          int
}

// Limiter hands out at most Limit permits at a time.
type Limiter struct {
	sem chan struct{}
	log logger.Logger

	mu             sync.Mutex
	totalRequests  int64
	permitWaitTime time.Duration
}

// NewLimiter returns a Limiter allowing limit concurrent permits.
func NewLimiter(limit int, log logger.Logger) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("concurrency limit must be positive, got %d", limit)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Limiter{sem: make(chan struct{}, limit), log: log}, nil
}

// Acquire blocks until a permit is free or ctx is done. The returned func releases the permit
// and must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		l.log.Warn("Failed to acquire concurrency permit", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}

	wait := time.Since(start)
	l.mu.Lock()
	l.totalRequests++
	l.permitWaitTime += wait
	l.mu.Unlock()

	l.log.Debug("Acquired concurrency permit", zap.Duration("AcquisitionTime", wait), zap.Int("UtilizedPermits", len(l.sem)), zap.Int("AvailablePermits", cap(l.sem)-len(l.sem)))

	var once sync.Once
	return func() {
		once.Do(func() { <-l.sem })
	}, nil
}

// Metrics returns a snapshot of permit usage.
func (l *Limiter) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Metrics{
		TotalRequests:  l.totalRequests,
		PermitWaitTime: l.permitWaitTime,
		InFlight:       len(l.sem),
		Limit:          cap(l.sem),
	}
}
