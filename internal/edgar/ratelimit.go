// internal/edgar/ratelimit.go
package edgar

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces requests so the service stays under the SEC fair access
// ceiling of ten requests per second. Callers block in Wait until their
// slot comes up; slots are handed out in arrival order.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewLimiter creates a limiter allowing requestsPerSecond sustained
// throughput. Non-positive rates fall back to the SEC ceiling.
func NewLimiter(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &Limiter{
		interval: time.Duration(float64(time.Second) / requestsPerSecond),
	}
}

// Wait blocks until the caller may send a request or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval returns the spacing between granted slots.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
