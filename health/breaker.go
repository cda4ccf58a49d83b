package health

import (
	"context"
	"fmt"

	"github.com/sweengineeringlabs/guardrail/resilience"
)

// BreakerChecker reports the health of a circuit breaker.
//
// A closed breaker is healthy, a half-open breaker is degraded (probes in
// flight), and an open breaker is unhealthy (calls are being rejected).
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given circuit breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports the breaker state as a health result.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	m := c.breaker.Metrics()

	details := map[string]any{
		"state":     m.State.String(),
		"failures":  m.Failures,
		"successes": m.Successes,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open, rejecting calls", resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("circuit closed, %d recent failures", m.Failures)).WithDetails(details)
	}
}

var _ Checker = (*BreakerChecker)(nil)
