// Package health exposes the state of guard components as health checks.
//
// This package implements a small health checking framework: a Checker
// reports the status of one component, and an Aggregator combines many
// checkers into a single composite report. The Status type represents the
// health state: Healthy, Degraded, or Unhealthy.
//
// # Guard checkers
//
// BreakerChecker maps circuit breaker states onto health statuses: a closed
// breaker is healthy, half-open is degraded, open is unhealthy.
//
//	check := health.NewBreakerChecker("db-primary", breaker)
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("breaker open: %s", result.Message)
//	}
//
// LimiterChecker reports how close a rate limiter is to saturation based on
// a utilization probe:
//
//	check := health.NewLimiterChecker("payments-api", health.LimiterCheckerConfig{
//	    Utilization: func() float64 {
//	        return 1 - float64(bucket.Tokens())/10
//	    },
//	})
//
// # Aggregating health checks
//
// Use Aggregator to combine multiple health checks into a single composite
// check:
//
//	agg := health.NewAggregator()
//	agg.Register("db-breaker", breakerChecker)
//	agg.Register("api-limiter", limiterChecker)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// The package deliberately has no HTTP surface; callers map statuses onto
// whatever probe endpoints they already serve.
package health
