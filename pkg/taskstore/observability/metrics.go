package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records taskstore metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInsert records a handle being tracked. replaced indicates the
	// insert displaced an existing entry for the same key.
	RecordInsert(ctx context.Context, store string, replaced bool)

	// RecordEviction records a reaper removing a terminal entry, with the
	// outcome classification and how long the entry lived in the store.
	RecordEviction(ctx context.Context, store string, outcome string, age time.Duration)

	// RecordReplacement records an entry leaving the store because a newer
	// insert displaced it.
	RecordReplacement(ctx context.Context, store string, age time.Duration)

	// RecordActiveEntries adjusts the live entry count by delta.
	RecordActiveEntries(ctx context.Context, store string, delta int64)

	// RecordSlowEntries records how many entries the monitor found alive
	// past its threshold.
	RecordSlowEntries(ctx context.Context, store string, count int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inserts       metric.Int64Counter
	evictions     metric.Int64Counter
	entryAge      metric.Float64Histogram
	activeEntries metric.Int64UpDownCounter
	slowEntries   metric.Int64Gauge
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("taskstore")

	inserts, err := meter.Int64Counter("taskstore.inserts",
		metric.WithDescription("Number of handles inserted"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter("taskstore.evictions",
		metric.WithDescription("Number of terminal entries removed by reapers"),
	)
	if err != nil {
		return nil, err
	}

	entryAge, err := meter.Float64Histogram("taskstore.entry.age_ms",
		metric.WithDescription("Time an entry spent in the store before removal in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	activeEntries, err := meter.Int64UpDownCounter("taskstore.entries.active",
		metric.WithDescription("Number of entries currently tracked"),
	)
	if err != nil {
		return nil, err
	}

	slowEntries, err := meter.Int64Gauge("taskstore.entries.slow",
		metric.WithDescription("Number of entries alive past the monitor threshold"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inserts:       inserts,
		evictions:     evictions,
		entryAge:      entryAge,
		activeEntries: activeEntries,
		slowEntries:   slowEntries,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInsert records a handle being tracked.
func (m *otelMetrics) RecordInsert(ctx context.Context, store string, replaced bool) {
	m.inserts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store", store),
		attribute.Bool("replaced", replaced),
	))
}

// RecordEviction records a reaper removing a terminal entry.
func (m *otelMetrics) RecordEviction(ctx context.Context, store string, outcome string, age time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("store", store),
		attribute.String("outcome", outcome),
	}
	m.evictions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.entryAge.Record(ctx, float64(age.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordReplacement records an entry displaced by a newer insert.
func (m *otelMetrics) RecordReplacement(ctx context.Context, store string, age time.Duration) {
	m.entryAge.Record(ctx, float64(age.Milliseconds()), metric.WithAttributes(
		attribute.String("store", store),
		attribute.String("outcome", "replaced"),
	))
}

// RecordActiveEntries adjusts the live entry count.
func (m *otelMetrics) RecordActiveEntries(ctx context.Context, store string, delta int64) {
	m.activeEntries.Add(ctx, delta, metric.WithAttributes(
		attribute.String("store", store),
	))
}

// RecordSlowEntries records the monitor's slow entry count.
func (m *otelMetrics) RecordSlowEntries(ctx context.Context, store string, count int64) {
	m.slowEntries.Record(ctx, count, metric.WithAttributes(
		attribute.String("store", store),
	))
}
