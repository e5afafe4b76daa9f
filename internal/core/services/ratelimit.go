package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for a provider.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables the bucket.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff is the pause after a rate limit response when the provider
	// gives no retry hint.
	Backoff time.Duration
}

// DefaultRateLimitBackoff is used when RateLimitConfig.Backoff is zero.
const DefaultRateLimitBackoff = 10 * time.Second

// RateLimiter throttles provider requests with a token bucket and pauses
// all callers after a 429.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
}

// NewRateLimiter creates a rate limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultRateLimitBackoff
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		backoff: backoff,
	}
}

// Wait blocks until a request may be sent, honouring any backoff set by
// RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff period. A non-positive retryAfter
// selects the configured default.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = r.backoff
	}
	r.retryAt = time.Now().Add(retryAfter)
}

// Allow reports whether a request may be sent right now without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
