// Package ratelimit provides the fixed-interval delay applied between
// upstream review-page requests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// IntervalLimiter enforces a minimum interval between calls to Wait.
// Pagination within a submission is strictly sequential, so the limiter
// is effectively uncontended, but it is still safe for concurrent use.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewIntervalLimiter creates a limiter with the given minimum interval.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed, or
// the context is cancelled. The first call never blocks.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	var wait time.Duration
	if !l.last.IsZero() {
		if elapsed := now.Sub(l.last); elapsed < l.interval {
			wait = l.interval - elapsed
		}
	}
	l.last = now.Add(wait)
	l.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval returns the configured minimum interval.
func (l *IntervalLimiter) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}
