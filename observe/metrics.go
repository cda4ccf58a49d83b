package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records telemetry for guarded operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAdmission records a rate limiter admission decision.
	RecordAdmission(ctx context.Context, meta GuardMeta, allowed bool)

	// RecordStateChange records a circuit breaker state transition.
	RecordStateChange(ctx context.Context, meta GuardMeta, from, to string)

	// RecordRetry records a retry of a failed attempt.
	RecordRetry(ctx context.Context, meta GuardMeta, attempt int)

	// RecordOperation records a guarded operation with duration and error status.
	RecordOperation(ctx context.Context, meta GuardMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter          metric.Meter
	admissionCount metric.Int64Counter
	transitions    metric.Int64Counter
	retryCount     metric.Int64Counter
	opCount        metric.Int64Counter
	opErrors       metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	admissionCount, err := meter.Int64Counter(
		"guard.admission.total",
		metric.WithDescription("Total number of rate limiter admission decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"guard.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"guard.retry.attempts",
		metric.WithDescription("Total number of retried attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	opCount, err := meter.Int64Counter(
		"guard.op.total",
		metric.WithDescription("Total number of guarded operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	opErrors, err := meter.Int64Counter(
		"guard.op.errors",
		metric.WithDescription("Total number of guarded operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"guard.op.duration_ms",
		metric.WithDescription("Guarded operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:          meter,
		admissionCount: admissionCount,
		transitions:    transitions,
		retryCount:     retryCount,
		opCount:        opCount,
		opErrors:       opErrors,
		durationHist:   durationHist,
	}, nil
}

func (m *metricsImpl) baseAttrs(meta GuardMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("guard.id", meta.GuardID()),
		attribute.String("guard.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("guard.kind", meta.Kind))
	}
	return attrs
}

// RecordAdmission records an admission decision with a decision attribute.
func (m *metricsImpl) RecordAdmission(ctx context.Context, meta GuardMeta, allowed bool) {
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	attrs := append(m.baseAttrs(meta), attribute.String("decision", decision))
	m.admissionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStateChange records a breaker transition with from/to attributes.
func (m *metricsImpl) RecordStateChange(ctx context.Context, meta GuardMeta, from, to string) {
	attrs := append(m.baseAttrs(meta),
		attribute.String("from", from),
		attribute.String("to", to),
	)
	m.transitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRetry records one retried attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta GuardMeta, attempt int) {
	attrs := append(m.baseAttrs(meta), attribute.Int("attempt", attempt))
	m.retryCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOperation records counters and duration for a guarded operation.
func (m *metricsImpl) RecordOperation(ctx context.Context, meta GuardMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(m.baseAttrs(meta)...)

	m.opCount.Add(ctx, 1, opt)
	if err != nil {
		m.opErrors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordAdmission(ctx context.Context, meta GuardMeta, allowed bool) {}
func (m *noopMetrics) RecordStateChange(ctx context.Context, meta GuardMeta, from, to string) {
}
func (m *noopMetrics) RecordRetry(ctx context.Context, meta GuardMeta, attempt int) {}
func (m *noopMetrics) RecordOperation(ctx context.Context, meta GuardMeta, duration time.Duration, err error) {
}
