// Package observability provides production-grade observability features
// for taskstore: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"fmt"
	"log/slog"
	"time"
)

// EnrichLogger adds taskstore context to a logger.
// Returns a new logger with store and key fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "downloads", "report.pdf")
//	enriched.Info("doing work") // includes store, key
func EnrichLogger(logger *slog.Logger, store, key string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("store", store),
		slog.String("key", key),
	)
}

// LogInsert logs a handle being tracked under a fresh key.
func LogInsert(logger *slog.Logger, store, key string) {
	if logger == nil {
		return
	}
	logger.Debug("entry inserted",
		slog.String("store", store),
		slog.String("key", key),
	)
}

// LogReplace logs an insert displacing an existing entry.
func LogReplace(logger *slog.Logger, store, key string, ageMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("entry replaced",
		slog.String("store", store),
		slog.String("key", key),
		slog.Float64("age_ms", ageMs),
	)
}

// LogEvict logs a reaper removing a terminal entry.
func LogEvict(logger *slog.Logger, store, key, outcome string, ageMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("entry evicted",
		slog.String("store", store),
		slog.String("key", key),
		slog.String("outcome", outcome),
		slog.Float64("age_ms", ageMs),
	)
}

// LogReaperPanic logs a panic swallowed by a reaper (non-fatal).
func LogReaperPanic(logger *slog.Logger, store, key string, value any) {
	if logger == nil {
		return
	}
	logger.Error("reaper panicked",
		slog.String("store", store),
		slog.String("key", key),
		slog.String("panic", fmt.Sprint(value)),
	)
}

// LogSlowEntry logs an entry alive longer than the monitor threshold.
func LogSlowEntry(logger *slog.Logger, store, key string, ageMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("entry alive past threshold",
		slog.String("store", store),
		slog.String("key", key),
		slog.Float64("age_ms", ageMs),
	)
}

// LogMonitorStart logs the monitor starting.
func LogMonitorStart(logger *slog.Logger, store string, interval, slowAfter time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("monitor started",
		slog.String("store", store),
		slog.String("interval", interval.String()),
		slog.String("slow_after", slowAfter.String()),
	)
}

// LogMonitorStop logs the monitor stopping.
func LogMonitorStop(logger *slog.Logger, store string) {
	if logger == nil {
		return
	}
	logger.Info("monitor stopped",
		slog.String("store", store),
	)
}
