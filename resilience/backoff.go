package resilience

import (
	"math"
	"time"
)

// Backoff computes the delay before the next retry attempt.
//
// Contract:
// - Delay must be a pure function of the attempt number: no internal state,
//   no randomness. Callers that want jitter wrap the retry policy.
// - attempt is 1-based: Delay(1) is the delay after the first failure.
type Backoff interface {
	Delay(attempt int) time.Duration
}

// ExponentialBackoffConfig configures ExponentialBackoff.
type ExponentialBackoffConfig struct {
	// InitialDelay is the delay after the first failed attempt.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the computed delay.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the growth factor between attempts.
	// Default: 2.0
	Multiplier float64
}

// ExponentialBackoff grows the delay multiplicatively with each attempt:
//
//	delay(n) = min(InitialDelay * Multiplier^(n-1), MaxDelay)
//
// With the defaults the schedule is 100ms, 200ms, 400ms, 800ms, ...
type ExponentialBackoff struct {
	config ExponentialBackoffConfig
}

// NewExponentialBackoff creates a deterministic exponential backoff.
func NewExponentialBackoff(config ExponentialBackoffConfig) *ExponentialBackoff {
	// Apply defaults
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}

	return &ExponentialBackoff{config: config}
}

// Delay returns the delay before the given 1-based attempt.
func (b *ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	multiplier := math.Pow(b.config.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(b.config.InitialDelay) * multiplier)

	// math.Pow overflows to +Inf long before Duration does; a negative or
	// zero result here means the arithmetic overflowed.
	if delay <= 0 || delay > b.config.MaxDelay {
		return b.config.MaxDelay
	}
	return delay
}

// ConstantBackoff uses the same delay for every attempt.
type ConstantBackoff struct {
	// Interval is the fixed delay between attempts.
	Interval time.Duration
}

// Delay returns the fixed interval regardless of attempt number.
func (b ConstantBackoff) Delay(attempt int) time.Duration {
	return b.Interval
}

// LinearBackoff grows the delay by a fixed step each attempt, capped at Max.
type LinearBackoff struct {
	// Step is the per-attempt increment; the first delay equals one Step.
	Step time.Duration

	// Max caps the computed delay. Zero means uncapped.
	Max time.Duration
}

// Delay returns attempt * Step, capped at Max.
func (b LinearBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := b.Step * time.Duration(attempt)
	if b.Max > 0 && delay > b.Max {
		return b.Max
	}
	return delay
}

var (
	_ Backoff = (*ExponentialBackoff)(nil)
	_ Backoff = ConstantBackoff{}
	_ Backoff = LinearBackoff{}
)
