// Package ratelimit provides in-process admission-control primitives.
//
// This package implements four interchangeable rate limiting algorithms
// behind a single Limiter contract. State is process-local and in-memory;
// nothing is shared across processes or persisted across restarts.
//
// # Algorithms
//
//   - Token Bucket: grants a fixed-size pool of permits, replenished at a
//     steady rate. Allows bursts up to capacity.
//
//   - Leaky Bucket: accumulates load and drains it at a steady rate,
//     rejecting when full. Smooths bursts instead of allowing them.
//
//   - Fixed Window: counts requests within discrete, non-overlapping
//     intervals. Cheapest, but admits up to twice the limit across a
//     window boundary.
//
//   - Sliding Window: counts requests within a continuously moving trailing
//     interval, tracked via a timestamp log. Exact, at the cost of one
//     stored timestamp per admitted request.
//
// # Usage
//
// Each limiter is constructed with an explicit configuration:
//
//	tb := ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
//	    Capacity:       10,
//	    RefillRate:     5,
//	    RefillInterval: 100 * time.Millisecond,
//	})
//
//	if tb.Allow() {
//	    // proceed
//	} else {
//	    // shed load
//	}
//
// Allow is bounded and never blocks, so it is safe to call from arbitrarily
// many concurrent goroutines. Acquire is the blocking variant and honors
// context cancellation.
//
// # Per-key limiting
//
// Keyed manages one limiter instance per key (for example per client),
// creating them lazily and evicting idle entries:
//
//	keyed := ratelimit.NewKeyed(ratelimit.KeyedConfig{
//	    Factory: func() ratelimit.Limiter {
//	        return ratelimit.NewSlidingWindow(ratelimit.SlidingWindowConfig{
//	            MaxRequests: 100,
//	            WindowSize:  time.Minute,
//	        })
//	    },
//	})
//
//	if keyed.Allow(clientID) {
//	    // proceed
//	}
//
// Translating ErrRateLimitExceeded into transport responses (HTTP 429 and
// the like) is left to callers.
package ratelimit
