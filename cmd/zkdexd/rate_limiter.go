// rate_limiter.go - Per-sender rate limiting for proof submissions
package main

import (
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	mu           sync.Mutex
	tokens       int
	maxTokens    int
	refillPeriod time.Duration
	lastRefill   time.Time
}

// NewRateLimiter creates a bucket of maxTokens refilled one token per period.
func NewRateLimiter(maxTokens int, refillPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:       maxTokens,
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request is allowed and consumes a token if so
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(rl.lastRefill) / rl.refillPeriod)
	if refill > 0 {
		rl.tokens += refill
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = now
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// SenderRateLimiter manages one token bucket per submitting sender.
// Anonymous submissions share the empty-string bucket.
type SenderRateLimiter struct {
	mu           sync.Mutex
	limiters     map[string]*RateLimiter
	maxTokens    int
	refillPeriod time.Duration
}

// NewSenderRateLimiter creates a new per-sender rate limiter
func NewSenderRateLimiter(maxTokens int, refillPeriod time.Duration) *SenderRateLimiter {
	return &SenderRateLimiter{
		limiters:     make(map[string]*RateLimiter),
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
	}
}

// Allow checks if a submission from a sender is allowed
func (srl *SenderRateLimiter) Allow(sender string) bool {
	srl.mu.Lock()
	limiter, exists := srl.limiters[sender]
	if !exists {
		limiter = NewRateLimiter(srl.maxTokens, srl.refillPeriod)
		srl.limiters[sender] = limiter
	}
	srl.mu.Unlock()

	return limiter.Allow()
}
