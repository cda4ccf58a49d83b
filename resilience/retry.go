package resilience

import (
	"context"
	"time"
)

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial one).
	// Default: 3
	MaxAttempts int

	// Backoff computes the delay between attempts.
	// Default: exponential, 100ms initial, 30s cap, multiplier 2.0.
	Backoff Backoff

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// RetryPolicy re-invokes a fallible operation with growing delay until it
// succeeds or the attempt budget is exhausted.
//
// The delay schedule is fully deterministic: no jitter is added. Callers
// that need jitter should wrap the policy's Backoff.
type RetryPolicy struct {
	config RetryConfig
}

// NewRetryPolicy creates a new retry policy.
func NewRetryPolicy(config RetryConfig) *RetryPolicy {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Backoff == nil {
		config.Backoff = NewExponentialBackoff(ExponentialBackoffConfig{})
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &RetryPolicy{config: config}
}

// Execute runs the operation, retrying failures up to the attempt budget.
//
// Transient failures are absorbed internally; once the budget is exhausted
// a *MaxRetriesError wrapping the last operation error is returned. Errors
// rejected by RetryIf are returned unchanged without further attempts. The
// backoff sleep honors context cancellation.
func (r *RetryPolicy) Execute(ctx context.Context, op func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if !r.config.RetryIf(err) {
			return err
		}

		if attempt >= r.config.MaxAttempts {
			return &MaxRetriesError{Attempts: r.config.MaxAttempts, LastErr: err}
		}

		delay := r.config.Backoff.Delay(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		// Sleep with the ability to abandon the wait on cancellation. No
		// state needs rolling back here: attempt bookkeeping is local.
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Config returns the retry configuration.
func (r *RetryPolicy) Config() RetryConfig {
	return r.config
}
