package ratelimit

import "errors"

// Sentinel errors for admission control.
var (
	// ErrRateLimitExceeded is returned when a request is denied by a limiter.
	// It is recoverable: callers should shed load or retry later.
	ErrRateLimitExceeded = errors.New("ratelimit: rate limit exceeded")
)
