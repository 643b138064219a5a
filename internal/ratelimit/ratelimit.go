// Package ratelimit provides fixed-window admission control backed by a
// pluggable counter store.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Store increments a counter that expires one window after its first hit.
type Store interface {
	// Incr bumps key and returns the new count and the time left in the
	// current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1.
func (d Decision) RetryAfterSeconds() int {
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter admits at most limit requests per key per window.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// New creates a limiter.
func New(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window}
}

// Allow records one request for key and reports whether it is admitted.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, ttl, err := l.store.Incr(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("rate limit store: %w", err)
	}
	if ttl <= 0 {
		ttl = l.window
	}
	if count > l.limit {
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - count, RetryAfter: ttl}, nil
}

// Limit returns the per-window quota.
func (l *Limiter) Limit() int64 {
	return l.limit
}

// Ping checks the backing store.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.store.Ping(ctx)
}
