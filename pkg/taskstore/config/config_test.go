package config_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woin2ee/taskstore/pkg/taskstore/config"
	"gopkg.in/yaml.v3"
)

// TestDefault verifies the built-in settings.
func TestDefault(t *testing.T) {
	s := config.Default()

	assert.Equal(t, "taskstore", s.Name)
	assert.False(t, s.Observability.Metrics)
	assert.False(t, s.Observability.Tracing)
	assert.Equal(t, "info", s.Observability.LogLevel)
	assert.False(t, s.Monitor.Enabled)
	assert.Equal(t, 30*time.Second, s.Monitor.Interval.Std())
	assert.Equal(t, 5*time.Minute, s.Monitor.SlowAfter.Std())
	assert.NoError(t, s.Validate())
}

// TestFromYAML verifies YAML parsing over defaults.
func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(*testing.T, config.Settings)
	}{
		{
			"full settings",
			`name: downloads
observability:
  metrics: true
  tracing: true
  log_level: debug
monitor:
  enabled: true
  interval: 10s
  slow_after: 2m`,
			false,
			func(t *testing.T, s config.Settings) {
				assert.Equal(t, "downloads", s.Name)
				assert.True(t, s.Observability.Metrics)
				assert.True(t, s.Observability.Tracing)
				assert.Equal(t, "debug", s.Observability.LogLevel)
				assert.True(t, s.Monitor.Enabled)
				assert.Equal(t, 10*time.Second, s.Monitor.Interval.Std())
				assert.Equal(t, 2*time.Minute, s.Monitor.SlowAfter.Std())
			},
		},
		{
			"partial settings keep defaults",
			`name: uploads`,
			false,
			func(t *testing.T, s config.Settings) {
				assert.Equal(t, "uploads", s.Name)
				assert.Equal(t, "info", s.Observability.LogLevel)
				assert.Equal(t, 30*time.Second, s.Monitor.Interval.Std())
			},
		},
		{
			"nested partial keeps sibling defaults",
			`monitor:
  enabled: true`,
			false,
			func(t *testing.T, s config.Settings) {
				assert.True(t, s.Monitor.Enabled)
				assert.Equal(t, 30*time.Second, s.Monitor.Interval.Std())
				assert.Equal(t, 5*time.Minute, s.Monitor.SlowAfter.Std())
			},
		},
		{
			"empty yaml keeps defaults",
			``,
			false,
			func(t *testing.T, s config.Settings) {
				assert.Equal(t, config.Default(), s)
			},
		},
		{
			"invalid yaml",
			`invalid: yaml: content:`,
			true,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := config.FromYAML([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

// TestFromYAML_Errors verifies sentinel errors surface through parsing.
func TestFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"bad duration", "monitor:\n  interval: banana", config.ErrInvalidDuration},
		{"numeric duration", "monitor:\n  interval: 30", config.ErrInvalidDuration},
		{"bad log level", "observability:\n  log_level: loud", config.ErrInvalidLogLevel},
		{"empty name", `name: ""`, config.ErrNameRequired},
		{"zero interval", "monitor:\n  enabled: true\n  interval: 0s", config.ErrMonitorInterval},
		{"zero slow_after", "monitor:\n  enabled: true\n  slow_after: 0s", config.ErrMonitorSlowAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestFromJSON verifies JSON parsing over defaults.
func TestFromJSON(t *testing.T) {
	t.Run("full settings", func(t *testing.T) {
		data := `{
			"name": "downloads",
			"observability": {"metrics": true, "log_level": "warn"},
			"monitor": {"enabled": true, "interval": "15s", "slow_after": "1m"}
		}`

		s, err := config.FromJSON([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, "downloads", s.Name)
		assert.True(t, s.Observability.Metrics)
		assert.False(t, s.Observability.Tracing)
		assert.Equal(t, "warn", s.Observability.LogLevel)
		assert.Equal(t, 15*time.Second, s.Monitor.Interval.Std())
		assert.Equal(t, time.Minute, s.Monitor.SlowAfter.Std())
	})

	t.Run("partial settings keep defaults", func(t *testing.T) {
		s, err := config.FromJSON([]byte(`{"name": "uploads"}`))
		require.NoError(t, err)
		assert.Equal(t, "uploads", s.Name)
		assert.Equal(t, 30*time.Second, s.Monitor.Interval.Std())
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := config.FromJSON([]byte(`{invalid json}`))
		assert.Error(t, err)
	})

	t.Run("numeric duration", func(t *testing.T) {
		_, err := config.FromJSON([]byte(`{"monitor": {"interval": 5}}`))
		assert.ErrorIs(t, err, config.ErrInvalidDuration)
	})
}

// TestValidate verifies settings validation rules.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Settings)
		want   error
	}{
		{"defaults valid", func(s *config.Settings) {}, nil},
		{"empty name", func(s *config.Settings) { s.Name = "" }, config.ErrNameRequired},
		{"unknown log level", func(s *config.Settings) {
			s.Observability.LogLevel = "loud"
		}, config.ErrInvalidLogLevel},
		{"monitor zero interval", func(s *config.Settings) {
			s.Monitor.Enabled = true
			s.Monitor.Interval = 0
		}, config.ErrMonitorInterval},
		{"monitor negative interval", func(s *config.Settings) {
			s.Monitor.Enabled = true
			s.Monitor.Interval = config.Duration(-time.Second)
		}, config.ErrMonitorInterval},
		{"monitor zero slow_after", func(s *config.Settings) {
			s.Monitor.Enabled = true
			s.Monitor.SlowAfter = 0
		}, config.ErrMonitorSlowAfter},
		{"disabled monitor ignores durations", func(s *config.Settings) {
			s.Monitor.Enabled = false
			s.Monitor.Interval = 0
			s.Monitor.SlowAfter = 0
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

// TestFromFile verifies file loading with extension detection.
func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: fromyaml\n"), 0o644))

	ymlPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(ymlPath, []byte("name: fromyml\n"), 0o644))

	jsonPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "fromjson"}`), 0o644))

	txtPath := filepath.Join(tmpDir, "config.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("content"), 0o644))

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		errMsg   string
		wantName string
	}{
		{"yaml file", yamlPath, false, "", "fromyaml"},
		{"yml file", ymlPath, false, "", "fromyml"},
		{"json file", jsonPath, false, "", "fromjson"},
		{"unsupported extension", txtPath, true, "unsupported config file extension", ""},
		{"file not found", filepath.Join(tmpDir, "nonexistent.yaml"), true, "read config file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := config.FromFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name)
		})
	}
}

// TestFromFile_CaseInsensitiveExtension verifies extension matching is case-insensitive.
func TestFromFile_CaseInsensitiveExtension(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "config.YAML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: uppercase\n"), 0o644))

	jsonPath := filepath.Join(tmpDir, "config.Json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "mixedcase"}`), 0o644))

	s, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "uppercase", s.Name)

	s, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "mixedcase", s.Name)
}

// TestLevel verifies log level mapping.
func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"empty means info", "", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase", "ERROR", slog.LevelError},
		{"unknown falls back to info", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := config.ObservabilitySettings{LogLevel: tt.level}
			assert.Equal(t, tt.want, o.Level())
		})
	}
}

// TestDuration verifies duration accessors.
func TestDuration(t *testing.T) {
	d := config.Duration(90 * time.Second)

	assert.Equal(t, 90*time.Second, d.Std())
	assert.Equal(t, "1m30s", d.String())
}

// TestDurationMarshal verifies durations render as Go duration strings.
func TestDurationMarshal(t *testing.T) {
	d := config.Duration(45 * time.Second)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "45s\n", string(out))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"45s"`, string(data))
}
