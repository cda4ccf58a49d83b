package ratelimit

import (
	"context"
	"time"
)

// Limiter is the common contract shared by all rate limiting algorithms.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Allow is bounded and never suspends; no lock is held across a sleep.
// - Acquire must honor context cancellation while waiting.
type Limiter interface {
	// Allow reports whether one request is admitted right now.
	Allow() bool

	// Acquire blocks until a request is admitted or the context is done.
	Acquire(ctx context.Context) error

	// Execute runs the operation if a request is admitted, otherwise
	// returns ErrRateLimitExceeded without invoking it.
	Execute(ctx context.Context, op func(context.Context) error) error
}

// waiter is the internal surface Acquire loops against: a non-blocking
// admission check plus a hint for how long to wait before the next try.
type waiter interface {
	Allow() bool
	retryAfter() time.Duration
}

// acquire retries Allow until it succeeds, sleeping between attempts per the
// limiter's hint. The wait uses a real timer regardless of the injected
// clock: a fake clock controls admission arithmetic, not scheduling.
func acquire(ctx context.Context, w waiter) error {
	for {
		if w.Allow() {
			return nil
		}

		wait := w.retryAfter()
		if wait <= 0 {
			// Hint already elapsed; yield briefly instead of spinning.
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// execute is the shared Execute implementation.
func execute(ctx context.Context, w waiter, op func(context.Context) error) error {
	if !w.Allow() {
		return ErrRateLimitExceeded
	}
	return op(ctx)
}
