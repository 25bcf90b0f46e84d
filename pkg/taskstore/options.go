package taskstore

import (
	"log/slog"

	"github.com/woin2ee/taskstore/pkg/taskstore/config"
)

// storeConfig holds configuration for a Store.
type storeConfig struct {
	name    string
	logger  *slog.Logger
	metrics bool
	tracing bool
}

// defaultStoreConfig returns the default store configuration.
func defaultStoreConfig() storeConfig {
	return storeConfig{
		name: "taskstore",
	}
}

// Option configures a Store at construction time.
type Option func(*storeConfig)

// WithName sets the store name used in logs, metrics, and spans.
// Default: "taskstore"
//
// Give each store a distinct name when a process runs several.
func WithName(name string) Option {
	return func(c *storeConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger for store lifecycle events.
// Inserts, replacements, and evictions log at DEBUG; slow entries at WARN.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics.
// Default: disabled.
//
// The store records taskstore.inserts, taskstore.evictions,
// taskstore.entry.age_ms, taskstore.entries.active, and
// taskstore.entries.slow against the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *storeConfig) {
		c.metrics = enabled
	}
}

// WithTracing enables per-entry OpenTelemetry spans.
// Default: disabled.
//
// Each tracked entry gets a taskstore.entry span opened at insert and
// closed when the entry leaves the store, with the outcome as an attribute.
func WithTracing(enabled bool) Option {
	return func(c *storeConfig) {
		c.tracing = enabled
	}
}

// FromConfig derives store options from file-driven settings.
// The logger is not part of Settings; combine with WithLogger:
//
//	settings, err := config.FromFile("taskstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := taskstore.New[string, taskstore.Handle](
//	    append(taskstore.FromConfig(settings), taskstore.WithLogger(logger))...)
func FromConfig(settings config.Settings) []Option {
	return []Option{
		WithName(settings.Name),
		WithMetrics(settings.Observability.Metrics),
		WithTracing(settings.Observability.Tracing),
	}
}
