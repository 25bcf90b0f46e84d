package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the taskstore tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("taskstore")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEntrySpan starts a span covering an entry's lifetime in the
	// store, from insert to removal.
	// Returns the context with span and the span itself.
	StartEntrySpan(ctx context.Context, store, key string) (context.Context, trace.Span)

	// EndSpanWithOutcome completes an entry span, recording how the entry
	// left the store and any terminal error.
	EndSpanWithOutcome(span trace.Span, outcome string, err error)

	// AddSpanEvent records an event on an entry's live span, such as the
	// monitor flagging the entry as slow.
	AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartEntrySpan starts a span covering an entry's lifetime.
func (m *otelSpanManager) StartEntrySpan(ctx context.Context, store, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "taskstore.entry",
		trace.WithAttributes(
			attribute.String("store", store),
			attribute.String("entry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithOutcome completes an entry span.
func (m *otelSpanManager) EndSpanWithOutcome(span trace.Span, outcome string, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("entry.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent records an event on an entry's span.
func (m *otelSpanManager) AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartEntrySpan starts a span covering an entry's lifetime.
// Uses the global OTel tracer.
func StartEntrySpan(ctx context.Context, store, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "taskstore.entry",
		trace.WithAttributes(
			attribute.String("store", store),
			attribute.String("entry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithOutcome completes an entry span.
// Uses the same semantics as SpanManager.EndSpanWithOutcome.
func EndSpanWithOutcome(span trace.Span, outcome string, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("entry.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent records an event on an entry's span.
// Events added after the span has ended are dropped.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
