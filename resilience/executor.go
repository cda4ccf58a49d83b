package resilience

import (
	"context"
	"time"

	"github.com/sweengineeringlabs/guardrail/ratelimit"
)

// Executor composes multiple resilience patterns around one operation.
//
// The primitives themselves are independent; Executor is the one piece of
// glue that stacks them in a sensible order for callers that want the whole
// pipeline.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *RetryPolicy
	limiter        ratelimit.Limiter
	bulkhead       *Bulkhead
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *RetryPolicy) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithRateLimiter adds admission control to the executor. Any of the
// ratelimit algorithms can be used.
func WithRateLimiter(l ratelimit.Limiter) ExecutorOption {
	return func(e *Executor) {
		e.limiter = l
	}
}

// WithBulkhead adds concurrency isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout adds a per-operation deadline to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds a preconfigured timeout wrapper to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through all configured resilience patterns.
//
// The execution order is:
// 1. Rate limiter (if configured) - sheds excess load first
// 2. Bulkhead (if configured) - limits concurrency
// 3. Circuit breaker (if configured) - prevents cascading failures
// 4. Retry (if configured) - retries on failure
// 5. Timeout (if configured) - bounds each attempt
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	// Build the execution chain from inside out
	execute := op

	// Wrap with timeout (innermost)
	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	// Wrap with retry
	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	// Wrap with circuit breaker
	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	// Wrap with bulkhead
	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	// Wrap with rate limiter (outermost)
	if e.limiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.limiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
