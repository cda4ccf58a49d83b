package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is failing fast.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the downstream recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures in the closed
	// state before the circuit opens.
	// Default: 5
	FailureThreshold int

	// Timeout is how long the circuit stays open before a probe is allowed.
	// Default: 60 seconds
	Timeout time.Duration

	// SuccessThreshold is the number of consecutive half-open successes
	// required to close the circuit again.
	// Default: 2
	SuccessThreshold int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures. Callers that do not want
	// context cancellation counted can exempt it here.
	IsFailure func(err error) bool

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// CircuitBreaker wraps a fallible operation and fails fast once failures
// exceed a threshold.
//
// Half-open admission is not serialized: every caller that observes the
// half-open state is let through, so several concurrent probes can be in
// flight before the first result is known. A single probe failure sends the
// circuit back to open; probe results that arrive after that are discarded.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystemClock()
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker.
//
// Returns ErrCircuitOpen without invoking op while the circuit is open;
// otherwise op's own error (or nil) is propagated unchanged. Breaker state
// is read and updated under a lock, but op itself runs with the lock
// released so it may block freely.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset resets the circuit breaker to the closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.resetClosedLocked()

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.currentStateLocked() == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = cb.config.Clock.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.state = StateOpen
			}
		} else {
			// Only consecutive failures count
			cb.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// A single failed probe aborts probation and restarts the
			// open-state cooldown.
			cb.lastFailure = cb.config.Clock.Now()
			cb.successes = 0
			cb.state = StateOpen
		} else {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.resetClosedLocked()
			}
		}

	case StateOpen:
		// A concurrent probe result landing after another probe already
		// re-opened the circuit; nothing to record.
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

// currentStateLocked reports the state, moving open to half-open once the
// cooldown has elapsed. Half-open is reachable only through this path.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && cb.config.Clock.Now().Sub(cb.lastFailure) >= cb.config.Timeout {
		cb.state = StateHalfOpen
		cb.successes = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// resetClosedLocked moves to the closed state, zeroing both counters and the
// failure timestamp. lastFailure is set iff a failure has been recorded
// since the last closed-state reset.
func (cb *CircuitBreaker) resetClosedLocked() {
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.lastFailure = time.Time{}
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Successes   int
	LastFailure time.Time
}
