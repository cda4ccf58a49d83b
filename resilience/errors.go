package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	// It is recoverable after the cooldown: fail fast, do not retry immediately.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded is returned when max retry attempts are exhausted.
	// Match it with errors.Is; the concrete error is a *MaxRetriesError.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// MaxRetriesError is returned by RetryPolicy.Execute when the attempt budget
// is exhausted. It carries the number of attempts made and unwraps to the
// last operation error.
type MaxRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("resilience: max retries exceeded after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap exposes the last operation error to errors.Is/errors.As.
func (e *MaxRetriesError) Unwrap() error {
	return e.LastErr
}

// Is matches the ErrMaxRetriesExceeded sentinel.
func (e *MaxRetriesError) Is(target error) bool {
	return target == ErrMaxRetriesExceeded
}
