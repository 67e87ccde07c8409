package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CalcMeta contains metadata about a calculation for telemetry purposes.
type CalcMeta struct {
	Kind     string // Calculation kind name (required)
	CacheKey string // Derived cache key (optional)
	Cached   bool   // Whether the result was served from cache
}

// SpanName returns the deterministic span name for this calculation.
// Format: calc.eval.<kind>
func (m CalcMeta) SpanName() string {
	return "calc.eval." + m.Kind
}

// Tracer wraps OpenTelemetry tracing with calculation-specific span
// management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a calculation evaluation.
	StartSpan(ctx context.Context, meta CalcMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with calculation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CalcMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("calc.kind", meta.Kind),
		attribute.Bool("calc.cached", meta.Cached),
	}
	if meta.CacheKey != "" {
		attrs = append(attrs, attribute.String("calc.cache_key", meta.CacheKey))
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

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CalcMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
