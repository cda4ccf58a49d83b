package health

import (
	"context"
	"fmt"
)

// LimiterCheckerConfig configures a LimiterChecker.
type LimiterCheckerConfig struct {
	// Utilization returns the limiter's current fill ratio in [0, 1],
	// e.g. consumed tokens over capacity. Required.
	Utilization func() float64

	// WarnThreshold is the utilization at which the limiter is reported
	// degraded.
	// Default: 0.8
	WarnThreshold float64

	// CriticalThreshold is the utilization at which the limiter is reported
	// unhealthy.
	// Default: 1.0
	CriticalThreshold float64
}

// LimiterChecker reports how close a rate limiter is to saturation.
//
// Utilization below WarnThreshold is healthy, between the thresholds is
// degraded, and at or above CriticalThreshold is unhealthy.
type LimiterChecker struct {
	name   string
	config LimiterCheckerConfig
}

// NewLimiterChecker creates a checker for a rate limiter.
// Panics if config.Utilization is nil.
func NewLimiterChecker(name string, config LimiterCheckerConfig) *LimiterChecker {
	if config.Utilization == nil {
		panic("health: LimiterCheckerConfig.Utilization is required")
	}
	if config.WarnThreshold <= 0 {
		config.WarnThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 {
		config.CriticalThreshold = 1.0
	}

	return &LimiterChecker{name: name, config: config}
}

// Name returns the name of this checker.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check reports the limiter utilization as a health result.
func (c *LimiterChecker) Check(ctx context.Context) Result {
	util := c.config.Utilization()

	details := map[string]any{
		"utilization":        util,
		"warn_threshold":     c.config.WarnThreshold,
		"critical_threshold": c.config.CriticalThreshold,
	}

	msg := fmt.Sprintf("utilization %.0f%%", util*100)

	switch {
	case util >= c.config.CriticalThreshold:
		return Unhealthy("limiter saturated: "+msg, ErrCheckFailed).WithDetails(details)
	case util >= c.config.WarnThreshold:
		return Degraded("limiter near capacity: " + msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}

var _ Checker = (*LimiterChecker)(nil)
