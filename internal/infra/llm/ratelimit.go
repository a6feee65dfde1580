package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultRequestsPerMinute = 20

// RateLimiter enforces the completion endpoint's request budget with two
// cooperating constraints: a token bucket that spaces requests evenly across
// the minute, and a rolling per-minute counter that caps the absolute number
// of requests inside any one window.
type RateLimiter struct {
	mu          sync.Mutex
	rpm         int
	bucket      *rate.Limiter
	windowStart time.Time
	windowCount int
	now         func() time.Time
}

// NewRateLimiter creates a limiter for the given requests-per-minute ceiling.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}

	return &RateLimiter{
		rpm:    requestsPerMinute,
		bucket: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request. The caller's flow is strictly
// sequential, so blocking here is the backpressure mechanism.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Minimum inter-request spacing.
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	// 2. Rolling per-minute window.
	for {
		r.mu.Lock()
		now := r.now()
		if r.windowStart.IsZero() || now.Sub(r.windowStart) >= time.Minute {
			r.windowStart = now
			r.windowCount = 0
		}
		if r.windowCount < r.rpm {
			r.windowCount++
			r.mu.Unlock()

			return nil
		}
		waitFor := r.windowStart.Add(time.Minute).Sub(now)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitFor):
		}
	}
}
