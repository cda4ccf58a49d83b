package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// LeakyBucketConfig configures a leaky bucket limiter.
type LeakyBucketConfig struct {
	// Capacity is the maximum accumulated level before requests are rejected.
	// Default: 10
	Capacity int64

	// LeakRate is the number of units drained per leak interval.
	// Default: 1
	LeakRate int64

	// LeakInterval is how often the bucket drains.
	// Default: 100ms
	LeakInterval time.Duration

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// LeakyBucket is a rate limiter that accumulates load and drains it at a
// steady rate. It is the mirror image of TokenBucket: it tracks consumed
// load rather than remaining permits, so it smooths bursts instead of
// allowing them.
type LeakyBucket struct {
	config LeakyBucketConfig

	mu       sync.Mutex
	level    int64
	lastLeak time.Time
}

// NewLeakyBucket creates a new leaky bucket, initially empty.
func NewLeakyBucket(config LeakyBucketConfig) *LeakyBucket {
	// Apply defaults
	if config.Capacity <= 0 {
		config.Capacity = 10
	}
	if config.LeakRate <= 0 {
		config.LeakRate = 1
	}
	if config.LeakInterval <= 0 {
		config.LeakInterval = 100 * time.Millisecond
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystemClock()
	}

	return &LeakyBucket{
		config:   config,
		lastLeak: config.Clock.Now(),
	}
}

// Allow adds one unit of load if the bucket is not full.
func (lb *LeakyBucket) Allow() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.leakLocked()

	if lb.level < lb.config.Capacity {
		lb.level++
		return true
	}
	return false
}

// leakLocked drains the level for every whole interval elapsed since the
// last leak, saturating at zero. As with TokenBucket, the leak clock only
// advances on an actual leak event.
func (lb *LeakyBucket) leakLocked() {
	now := lb.config.Clock.Now()
	elapsed := now.Sub(lb.lastLeak)

	leaks := int64(elapsed / lb.config.LeakInterval)
	if leaks > 0 {
		lb.level -= leaks * lb.config.LeakRate
		if lb.level < 0 {
			lb.level = 0
		}
		lb.lastLeak = now
	}
}

// Acquire blocks until the bucket has room or the context is done.
func (lb *LeakyBucket) Acquire(ctx context.Context) error {
	return acquire(ctx, lb)
}

// Execute runs the operation if the bucket has room.
func (lb *LeakyBucket) Execute(ctx context.Context, op func(context.Context) error) error {
	return execute(ctx, lb, op)
}

// Level returns the current accumulated load.
func (lb *LeakyBucket) Level() int64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.leakLocked()
	return lb.level
}

func (lb *LeakyBucket) retryAfter() time.Duration {
	return lb.config.LeakInterval
}

var _ Limiter = (*LeakyBucket)(nil)
