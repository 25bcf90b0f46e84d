package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordInsert does nothing.
func (NoopMetrics) RecordInsert(_ context.Context, _ string, _ bool) {}

// RecordEviction does nothing.
func (NoopMetrics) RecordEviction(_ context.Context, _ string, _ string, _ time.Duration) {}

// RecordReplacement does nothing.
func (NoopMetrics) RecordReplacement(_ context.Context, _ string, _ time.Duration) {}

// RecordActiveEntries does nothing.
func (NoopMetrics) RecordActiveEntries(_ context.Context, _ string, _ int64) {}

// RecordSlowEntries does nothing.
func (NoopMetrics) RecordSlowEntries(_ context.Context, _ string, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartEntrySpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartEntrySpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithOutcome does nothing.
func (NoopSpanManager) EndSpanWithOutcome(_ trace.Span, _ string, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ trace.Span, _ string, _ ...attribute.KeyValue) {}
