// Package config loads taskstore settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for settings validation.
var (
	// ErrNameRequired indicates the store name is empty.
	ErrNameRequired = errors.New("store name is required")

	// ErrInvalidLogLevel indicates an unknown log_level value.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidDuration indicates a duration field could not be parsed.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrMonitorInterval indicates the monitor interval is not positive.
	ErrMonitorInterval = errors.New("monitor interval must be positive")

	// ErrMonitorSlowAfter indicates the monitor slow_after is not positive.
	ErrMonitorSlowAfter = errors.New("monitor slow_after must be positive")
)

// Duration is a time.Duration that marshals as a Go duration string
// ("250ms", "30s", "5m") in both YAML and JSON.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the Go duration string form.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the Go duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalJSON parses a Go duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, data)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON renders the Go duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Settings holds file-driven configuration for a store and its monitor.
// Load with FromFile, FromYAML, or FromJSON; fields absent from the file
// keep the values from Default().
type Settings struct {
	// Name identifies the store in logs, metrics, and spans.
	Name string `yaml:"name" json:"name"`

	// Observability toggles logging level, metrics, and tracing.
	Observability ObservabilitySettings `yaml:"observability" json:"observability"`

	// Monitor configures the slow-entry watcher.
	Monitor MonitorSettings `yaml:"monitor" json:"monitor"`
}

// ObservabilitySettings toggles the store's instrumentation.
type ObservabilitySettings struct {
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables per-entry OpenTelemetry spans.
	Tracing bool `yaml:"tracing" json:"tracing"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Level returns the slog level for the configured log_level.
// Unknown values fall back to info; Validate reports them as errors.
func (o ObservabilitySettings) Level() slog.Level {
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// MonitorSettings configures the slow-entry watcher.
type MonitorSettings struct {
	// Enabled starts the monitor alongside the store.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Interval is how often the monitor scans the store.
	Interval Duration `yaml:"interval" json:"interval"`

	// SlowAfter is the entry age past which the monitor reports.
	SlowAfter Duration `yaml:"slow_after" json:"slow_after"`
}

// Default returns the settings used when a field is absent from the file.
func Default() Settings {
	return Settings{
		Name: "taskstore",
		Observability: ObservabilitySettings{
			LogLevel: "info",
		},
		Monitor: MonitorSettings{
			Interval:  Duration(30 * time.Second),
			SlowAfter: Duration(5 * time.Minute),
		},
	}
}

// Validate checks the settings for consistency.
// Monitor durations are only checked when the monitor is enabled.
func (s Settings) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if _, err := parseLevel(s.Observability.LogLevel); err != nil {
		return err
	}
	if s.Monitor.Enabled {
		if s.Monitor.Interval <= 0 {
			return ErrMonitorInterval
		}
		if s.Monitor.SlowAfter <= 0 {
			return ErrMonitorSlowAfter
		}
	}
	return nil
}

// parseLevel maps a log_level string to a slog level.
// The empty string means info.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
