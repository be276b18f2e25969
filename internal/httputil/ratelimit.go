package httputil

import (
	"sync"
	"time"
)

// RateLimiter implements sliding-window rate limiting over one minute
type RateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	requests          []time.Time
}

// NewRateLimiter creates a limiter allowing rpm requests per minute
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: rpm,
		requests:          make([]time.Time, 0, rpm),
	}
}

// Wait blocks until a request slot is free, then records the request
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Remove requests older than 1 minute
	cutoff := now.Add(-1 * time.Minute)
	i := 0
	for i < len(rl.requests) && rl.requests[i].Before(cutoff) {
		i++
	}
	rl.requests = rl.requests[i:]

	// If we're at the limit, wait until the oldest request expires
	if len(rl.requests) >= rl.requestsPerMinute {
		oldest := rl.requests[0]
		waitDuration := oldest.Add(1 * time.Minute).Sub(now)
		if waitDuration > 0 {
			time.Sleep(waitDuration)
		}
	}

	// Record this request
	rl.requests = append(rl.requests, time.Now())
}

// Pending returns how many requests are inside the current window
func (rl *RateLimiter) Pending() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}
