package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// SlidingWindowConfig configures a sliding window limiter.
type SlidingWindowConfig struct {
	// MaxRequests is the number of requests admitted per trailing window.
	// Default: 100
	MaxRequests int

	// WindowSize is the length of the trailing window.
	// Default: 1s
	WindowSize time.Duration

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// SlidingWindow is a rate limiter that counts requests within a continuously
// moving trailing interval, tracked via a log of admission timestamps.
//
// Each admitted request occupies a slot for exactly WindowSize after it was
// recorded. Memory cost is one timestamp per admitted in-window request,
// bounded by MaxRequests.
type SlidingWindow struct {
	config SlidingWindowConfig

	mu         sync.Mutex
	timestamps []time.Time // oldest first
}

// NewSlidingWindow creates a new sliding window limiter.
func NewSlidingWindow(config SlidingWindowConfig) *SlidingWindow {
	// Apply defaults
	if config.MaxRequests <= 0 {
		config.MaxRequests = 100
	}
	if config.WindowSize <= 0 {
		config.WindowSize = time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystemClock()
	}

	return &SlidingWindow{
		config:     config,
		timestamps: make([]time.Time, 0, config.MaxRequests),
	}
}

// Allow admits one request if fewer than MaxRequests were admitted within
// the trailing window.
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.config.Clock.Now()
	sw.pruneLocked(now)

	if len(sw.timestamps) < sw.config.MaxRequests {
		sw.timestamps = append(sw.timestamps, now)
		return true
	}
	return false
}

// pruneLocked drops expired timestamps from the front of the log. The log is
// ordered oldest first, so pruning stops at the first live entry; each
// timestamp is appended and removed at most once, keeping the cost amortized
// O(1) per call.
func (sw *SlidingWindow) pruneLocked(now time.Time) {
	i := 0
	for i < len(sw.timestamps) && now.Sub(sw.timestamps[i]) >= sw.config.WindowSize {
		i++
	}
	if i > 0 {
		sw.timestamps = append(sw.timestamps[:0], sw.timestamps[i:]...)
	}
}

// Acquire blocks until the oldest slot expires or the context is done.
func (sw *SlidingWindow) Acquire(ctx context.Context) error {
	return acquire(ctx, sw)
}

// Execute runs the operation if the trailing window has room.
func (sw *SlidingWindow) Execute(ctx context.Context, op func(context.Context) error) error {
	return execute(ctx, sw, op)
}

// InWindow returns the number of admissions currently inside the window.
func (sw *SlidingWindow) InWindow() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.pruneLocked(sw.config.Clock.Now())
	return len(sw.timestamps)
}

// retryAfter reports the time until the oldest recorded slot frees up.
func (sw *SlidingWindow) retryAfter() time.Duration {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.timestamps) == 0 {
		return 0
	}
	return sw.timestamps[0].Add(sw.config.WindowSize).Sub(sw.config.Clock.Now())
}

var _ Limiter = (*SlidingWindow)(nil)
