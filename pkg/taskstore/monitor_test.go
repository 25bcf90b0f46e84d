package taskstore

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartMonitorValidatesInterval(t *testing.T) {
	s := New[string, *fakeHandle]()

	assert.PanicsWithValue(t, "taskstore: monitor interval must be positive", func() {
		s.StartMonitor(0, time.Minute)
	})
	assert.PanicsWithValue(t, "taskstore: monitor interval must be positive", func() {
		s.StartMonitor(-time.Second, time.Minute)
	})
}

func TestStartMonitorValidatesSlowAfter(t *testing.T) {
	s := New[string, *fakeHandle]()

	assert.PanicsWithValue(t, "taskstore: monitor slowAfter must be positive", func() {
		s.StartMonitor(time.Second, 0)
	})
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	s := New[string, *fakeHandle]()

	stop := s.StartMonitor(10*time.Millisecond, time.Minute)

	assert.NotPanics(t, func() {
		stop()
		stop()
		stop()
	})
}

func TestMonitorReportsSlowEntries(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New[string, *fakeHandle](WithName("watched"), WithLogger(logger))
	s.Insert("stuck-job", newFakeHandle())

	stop := s.StartMonitor(10*time.Millisecond, 20*time.Millisecond)
	defer stop()

	assert.Eventually(t, func() bool {
		out := buf.String()
		return strings.Contains(out, "entry alive past threshold") &&
			strings.Contains(out, "stuck-job")
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMonitorIgnoresFreshEntries(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New[string, *fakeHandle](WithLogger(logger))
	s.Insert("quick-job", newFakeHandle())

	stop := s.StartMonitor(10*time.Millisecond, time.Hour)
	defer stop()

	assert.Never(t, func() bool {
		return strings.Contains(buf.String(), "entry alive past threshold")
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestMonitorIgnoresEvictedEntries(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New[string, *fakeHandle](WithLogger(logger))
	h := newFakeHandle()
	s.Insert("done-job", h)
	h.finish(nil)
	waitLen(t, s, 0)

	stop := s.StartMonitor(10*time.Millisecond, 20*time.Millisecond)
	defer stop()

	assert.Never(t, func() bool {
		return strings.Contains(buf.String(), "entry alive past threshold")
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestMonitorLogsStartAndStop(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New[string, *fakeHandle](WithLogger(logger))
	stop := s.StartMonitor(10*time.Millisecond, time.Minute)

	assert.Contains(t, buf.String(), "monitor started")

	stop()
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "monitor stopped")
	}, 2*time.Second, 5*time.Millisecond)
}
