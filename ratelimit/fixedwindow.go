package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// FixedWindowConfig configures a fixed window limiter.
type FixedWindowConfig struct {
	// MaxRequests is the number of requests admitted per window.
	// Default: 100
	MaxRequests int64

	// WindowSize is the length of each window.
	// Default: 1s
	WindowSize time.Duration

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// FixedWindow is a rate limiter that counts requests within discrete,
// non-overlapping intervals.
//
// A caller can obtain up to 2*MaxRequests admissions within an arbitrary
// WindowSize-long span straddling a window boundary. That is an inherent
// property of the algorithm; use SlidingWindow when it matters.
type FixedWindow struct {
	config FixedWindowConfig

	mu          sync.Mutex
	count       int64
	windowStart time.Time
}

// NewFixedWindow creates a new fixed window limiter.
func NewFixedWindow(config FixedWindowConfig) *FixedWindow {
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

	return &FixedWindow{
		config:      config,
		windowStart: config.Clock.Now(),
	}
}

// Allow admits one request if the current window has room.
func (fw *FixedWindow) Allow() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.config.Clock.Now()
	if now.Sub(fw.windowStart) >= fw.config.WindowSize {
		fw.count = 0
		fw.windowStart = now
	}

	if fw.count < fw.config.MaxRequests {
		fw.count++
		return true
	}
	return false
}

// Acquire blocks until the window rolls over or the context is done.
func (fw *FixedWindow) Acquire(ctx context.Context) error {
	return acquire(ctx, fw)
}

// Execute runs the operation if the current window has room.
func (fw *FixedWindow) Execute(ctx context.Context, op func(context.Context) error) error {
	return execute(ctx, fw, op)
}

// Count returns the number of requests admitted in the current window.
func (fw *FixedWindow) Count() int64 {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.config.Clock.Now().Sub(fw.windowStart) >= fw.config.WindowSize {
		return 0
	}
	return fw.count
}

// retryAfter reports the time remaining until the current window ends.
func (fw *FixedWindow) retryAfter() time.Duration {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.windowStart.Add(fw.config.WindowSize).Sub(fw.config.Clock.Now())
}

var _ Limiter = (*FixedWindow)(nil)
