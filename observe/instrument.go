package observe

import (
	"context"
	"time"

	"github.com/sweengineeringlabs/guardrail/ratelimit"
	"github.com/sweengineeringlabs/guardrail/resilience"
)

// OpFunc is the signature for guarded operations.
type OpFunc func(ctx context.Context) error

// Instrumenter wraps guarded operations with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe OpFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
type Instrumenter struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrumenter creates a new Instrumenter with the given observability components.
func NewInstrumenter(tracer Tracer, metrics Metrics, logger Logger) *Instrumenter {
	return &Instrumenter{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// InstrumenterFromObserver creates an Instrumenter from an Observer.
func InstrumenterFromObserver(obs Observer) (*Instrumenter, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstrumenter(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Wrap wraps an OpFunc with tracing, metrics, and logging.
func (in *Instrumenter) Wrap(meta GuardMeta, fn OpFunc) OpFunc {
	return func(ctx context.Context) error {
		ctx, span := in.tracer.StartSpan(ctx, meta)
		start := time.Now()

		err := fn(ctx)
		duration := time.Since(start)

		in.tracer.EndSpan(span, err)
		in.metrics.RecordOperation(ctx, meta, duration, err)

		guardLogger := in.logger.WithGuard(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			guardLogger.Error(ctx, "guarded operation failed", fields...)
		} else {
			guardLogger.Debug(ctx, "guarded operation completed", fields...)
		}

		return err
	}
}

// InstrumentedLimiter wraps a rate limiter and records every admission
// decision. It implements ratelimit.Limiter and can be used anywhere the
// underlying limiter is.
type InstrumentedLimiter struct {
	limiter ratelimit.Limiter
	meta    GuardMeta
	metrics Metrics
	logger  Logger
}

// NewInstrumentedLimiter wraps a limiter with admission metrics and logging.
func NewInstrumentedLimiter(l ratelimit.Limiter, meta GuardMeta, metrics Metrics, logger Logger) *InstrumentedLimiter {
	if meta.Kind == "" {
		meta.Kind = "limiter"
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &InstrumentedLimiter{
		limiter: l,
		meta:    meta,
		metrics: metrics,
		logger:  logger.WithGuard(meta),
	}
}

// Allow delegates to the wrapped limiter and records the decision.
func (il *InstrumentedLimiter) Allow() bool {
	allowed := il.limiter.Allow()
	il.metrics.RecordAdmission(context.Background(), il.meta, allowed)
	if !allowed {
		il.logger.Debug(context.Background(), "request denied by rate limiter")
	}
	return allowed
}

// Acquire blocks until a permit is available or ctx is done.
// Each underlying admission attempt is not individually recorded; only the
// final outcome is.
func (il *InstrumentedLimiter) Acquire(ctx context.Context) error {
	err := il.limiter.Acquire(ctx)
	il.metrics.RecordAdmission(ctx, il.meta, err == nil)
	if err != nil {
		il.logger.Debug(ctx, "rate limiter acquire aborted", Field{Key: "error", Value: err.Error()})
	}
	return err
}

// Execute runs op if a permit is available, recording the decision.
func (il *InstrumentedLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if !il.Allow() {
		return ratelimit.ErrRateLimitExceeded
	}
	return op(ctx)
}

var _ ratelimit.Limiter = (*InstrumentedLimiter)(nil)

// BreakerStateHook returns a callback suitable for
// resilience.CircuitBreakerConfig.OnStateChange that records each state
// transition as a metric and a log line.
func BreakerStateHook(meta GuardMeta, metrics Metrics, logger Logger) func(from, to resilience.State) {
	if meta.Kind == "" {
		meta.Kind = "breaker"
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	guardLogger := logger.WithGuard(meta)

	return func(from, to resilience.State) {
		ctx := context.Background()
		metrics.RecordStateChange(ctx, meta, from.String(), to.String())
		guardLogger.Warn(ctx, "circuit breaker state changed",
			Field{Key: "from", Value: from.String()},
			Field{Key: "to", Value: to.String()},
		)
	}
}

// RetryHook returns a callback suitable for resilience.RetryConfig.OnRetry
// that records each retried attempt.
func RetryHook(meta GuardMeta, metrics Metrics, logger Logger) func(attempt int, err error, delay time.Duration) {
	if meta.Kind == "" {
		meta.Kind = "retry"
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	guardLogger := logger.WithGuard(meta)

	return func(attempt int, err error, delay time.Duration) {
		ctx := context.Background()
		metrics.RecordRetry(ctx, meta, attempt)
		guardLogger.Debug(ctx, "retrying failed attempt",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			Field{Key: "error", Value: err.Error()},
		)
	}
}
