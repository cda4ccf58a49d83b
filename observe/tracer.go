package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// GuardMeta identifies a guarded operation for telemetry purposes.
type GuardMeta struct {
	Name   string   // Guard name, e.g. "payments-api" (required)
	Kind   string   // Guard kind: limiter, breaker, retry, bulkhead, executor (optional)
	Labels []string // Free-form labels attached to spans (optional)
}

// SpanName returns the deterministic span name for this guard.
// Format: guard.exec.<kind>.<name> or guard.exec.<name>
func (m GuardMeta) SpanName() string {
	if m.Kind != "" {
		return "guard.exec." + m.Kind + "." + m.Name
	}
	return "guard.exec." + m.Name
}

// GuardID returns the fully qualified guard identifier.
func (m GuardMeta) GuardID() string {
	if m.Kind != "" {
		return m.Kind + "." + m.Name
	}
	return m.Name
}

// Tracer wraps OpenTelemetry tracing with guard-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a guarded operation.
	StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with guard metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("guard.id", meta.GuardID()),
		attribute.String("guard.name", meta.Name),
		attribute.Bool("guard.error", false), // Updated in EndSpan if error
	}

	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("guard.kind", meta.Kind))
	}
	if len(meta.Labels) > 0 {
		attrs = append(attrs, attribute.StringSlice("guard.labels", meta.Labels))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("guard.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
