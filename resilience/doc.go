// Package resilience provides failure-handling patterns for calling
// unreliable operations.
//
// Every primitive wraps an arbitrary fallible operation of the form
// func(context.Context) error; any unit of work can be protected uniformly.
// All state is process-local and in-memory. Internal state is guarded by a
// mutex held only across the bookkeeping arithmetic; the wrapped operation
// and all sleeps run with the lock released.
//
// # Patterns
//
//   - Circuit Breaker: stops invoking a failing downstream after repeated
//     failures, periodically allowing probe calls to detect recovery.
//
//   - Retry: re-invokes a failed operation with a deterministic backoff
//     schedule (exponential, linear, or constant) until success or the
//     attempt budget is exhausted.
//
//   - Bulkhead: limits concurrent operations to prevent resource exhaustion.
//
//   - Timeout: bounds the execution time of each operation.
//
// # Usage
//
// Each pattern can be used independently or composed through an Executor:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    Timeout:          time.Minute,
//	    SuccessThreshold: 2,
//	})
//
//	retry := resilience.NewRetryPolicy(resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    Backoff: resilience.NewExponentialBackoff(resilience.ExponentialBackoffConfig{
//	        InitialDelay: 100 * time.Millisecond,
//	        MaxDelay:     5 * time.Second,
//	    }),
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// # Errors
//
// ErrCircuitOpen and ratelimit.ErrRateLimitExceeded are recoverable: shed
// load or retry after a cooldown. Operation failures propagate unchanged.
// *MaxRetriesError (matching ErrMaxRetriesExceeded) is terminal for the
// retry wrapper. Mapping these to transport responses is the caller's job.
package resilience
