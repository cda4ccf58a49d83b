package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// TokenBucketConfig configures a token bucket limiter.
type TokenBucketConfig struct {
	// Capacity is the maximum number of tokens the bucket holds.
	// Default: 10
	Capacity int64

	// RefillRate is the number of tokens added per refill interval.
	// Default: 1
	RefillRate int64

	// RefillInterval is how often tokens are added.
	// Default: 100ms
	RefillInterval time.Duration

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// TokenBucket is a rate limiter that grants a fixed-size pool of permits,
// replenished at a steady rate.
type TokenBucket struct {
	config TokenBucketConfig

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// NewTokenBucket creates a new token bucket, initially full.
func NewTokenBucket(config TokenBucketConfig) *TokenBucket {
	// Apply defaults
	if config.Capacity <= 0 {
		config.Capacity = 10
	}
	if config.RefillRate <= 0 {
		config.RefillRate = 1
	}
	if config.RefillInterval <= 0 {
		config.RefillInterval = 100 * time.Millisecond
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystemClock()
	}

	return &TokenBucket{
		config:     config,
		tokens:     config.Capacity,
		lastRefill: config.Clock.Now(),
	}
}

// Allow consumes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// refillLocked credits tokens for every whole interval elapsed since the
// last refill. The refill clock advances only when at least one interval
// has passed, so partial intervals are never lost to frequent calls.
func (tb *TokenBucket) refillLocked() {
	now := tb.config.Clock.Now()
	elapsed := now.Sub(tb.lastRefill)

	refills := int64(elapsed / tb.config.RefillInterval)
	if refills > 0 {
		tb.tokens += refills * tb.config.RefillRate
		if tb.tokens > tb.config.Capacity {
			tb.tokens = tb.config.Capacity
		}
		tb.lastRefill = now
	}
}

// Acquire blocks until a token is available or the context is done.
// Failed attempts are spaced one refill interval apart with no backoff
// growth; a very small interval therefore yields a tight retry loop.
func (tb *TokenBucket) Acquire(ctx context.Context) error {
	return acquire(ctx, tb)
}

// Execute runs the operation if a token is available.
func (tb *TokenBucket) Execute(ctx context.Context, op func(context.Context) error) error {
	return execute(ctx, tb, op)
}

// Tokens returns the number of currently available tokens.
func (tb *TokenBucket) Tokens() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	return tb.tokens
}

func (tb *TokenBucket) retryAfter() time.Duration {
	return tb.config.RefillInterval
}

var _ Limiter = (*TokenBucket)(nil)
