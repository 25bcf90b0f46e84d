package taskstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/woin2ee/taskstore/pkg/taskstore/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartMonitor launches a background watcher that scans the store every
// interval and reports entries alive longer than slowAfter. A slow entry
// logs at WARN and feeds the taskstore.entries.slow gauge; with tracing
// enabled its entry span also gets a slow event.
//
// The monitor is purely observational: it never cancels handles and never
// evicts entries. It exists because an entry whose handle never terminates
// stays in the store, with its reaper parked, until the process exits; the
// monitor makes such entries visible.
//
// The returned stop function halts the monitor and is idempotent.
// StartMonitor panics if interval or slowAfter is not positive.
func (s *Store[K, H]) StartMonitor(interval, slowAfter time.Duration) (stop func()) {
	if interval <= 0 {
		panic("taskstore: monitor interval must be positive")
	}
	if slowAfter <= 0 {
		panic("taskstore: monitor slowAfter must be positive")
	}

	done := make(chan struct{})
	go s.monitor(interval, slowAfter, done)

	observability.LogMonitorStart(s.logger, s.name, interval, slowAfter)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
	}
}

// monitor runs the scan loop until done is closed.
func (s *Store[K, H]) monitor(interval, slowAfter time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			observability.LogMonitorStop(s.logger, s.name)
			return
		case <-ticker.C:
			s.reportSlow(slowAfter)
		}
	}
}

// reportSlow records and logs entries older than slowAfter.
func (s *Store[K, H]) reportSlow(slowAfter time.Duration) {
	type slowEntry struct {
		key  K
		age  time.Duration
		span trace.Span
	}

	now := time.Now()

	s.mu.RLock()
	var slow []slowEntry
	for k, e := range s.entries {
		if age := now.Sub(e.insertedAt); age > slowAfter {
			slow = append(slow, slowEntry{key: k, age: age, span: e.span})
		}
	}
	s.mu.RUnlock()

	s.metrics.RecordSlowEntries(context.Background(), s.name, int64(len(slow)))
	for _, se := range slow {
		ageMs := float64(se.age.Milliseconds())
		s.spans.AddSpanEvent(se.span, "slow", attribute.Float64("age_ms", ageMs))
		observability.LogSlowEntry(s.logger, s.name, fmt.Sprint(se.key), ageMs)
	}
}
