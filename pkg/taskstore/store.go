package taskstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/woin2ee/taskstore/pkg/taskstore/observability"
	"go.opentelemetry.io/otel/trace"
)

// entry is one tracked handle and its bookkeeping.
type entry[H Handle] struct {
	handle     H
	generation uint64
	insertedAt time.Time
	span       trace.Span
}

// Store is a concurrency-safe registry of in-flight asynchronous work,
// indexed by caller-supplied keys. Completed, failed, and cancelled entries
// are removed automatically by per-entry reapers, so the store never
// accumulates dead handles.
//
// A Store must be created with New. All methods are safe for concurrent
// use; no method blocks on the tracked work.
type Store[K comparable, H Handle] struct {
	mu      sync.RWMutex
	entries map[K]entry[H]
	gen     uint64

	name    string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	tracing bool
	hook    Hook[K, H]
}

// New creates an empty store.
func New[K comparable, H Handle](opts ...Option) *Store[K, H] {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store[K, H]{
		entries: make(map[K]entry[H]),
		name:    cfg.name,
		logger:  cfg.logger,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		tracing: cfg.tracing,
	}
	if cfg.metrics {
		s.metrics = observability.NewMetricsRecorder()
	}
	if cfg.tracing {
		s.spans = observability.NewSpanManager()
	}
	return s
}

// SetHook registers lifecycle callbacks. Returns the store for chaining.
//
// Set the hook once, before the store is shared across goroutines; the
// store reads it without synchronization on every insert and eviction.
func (s *Store[K, H]) SetHook(h Hook[K, H]) *Store[K, H] {
	s.hook = h
	return s
}

// Insert tracks h under key, replacing any existing entry for that key.
// A reaper goroutine watching h is running when Insert returns; it removes
// the entry once h reaches a terminal state.
//
// Replacement does not touch the displaced handle: it is not cancelled, not
// awaited, and its reaper keeps running until the handle finishes. Use a
// Hook's OnReplace callback to cancel superseded work.
//
// Insert panics if h is nil or reports a nil done channel; such a handle
// could never be reaped.
func (s *Store[K, H]) Insert(key K, h H) {
	if any(h) == nil {
		panic("taskstore: handle cannot be nil")
	}
	done := h.Done()
	if done == nil {
		panic("taskstore: handle returned a nil done channel")
	}

	var ks string
	if s.tracing || s.logger != nil {
		ks = fmt.Sprint(key)
	}

	ctx := context.Background()
	var span trace.Span
	if s.tracing {
		_, span = s.spans.StartEntrySpan(ctx, s.name, ks)
	}

	s.mu.Lock()
	prev, replaced := s.entries[key]
	s.gen++
	gen := s.gen
	s.entries[key] = entry[H]{
		handle:     h,
		generation: gen,
		insertedAt: time.Now(),
		span:       span,
	}
	s.mu.Unlock()

	go s.reap(key, gen, done)

	if replaced {
		age := time.Since(prev.insertedAt)
		s.spans.EndSpanWithOutcome(prev.span, string(OutcomeReplaced), nil)
		s.metrics.RecordReplacement(ctx, s.name, age)
		observability.LogReplace(s.logger, s.name, ks, float64(age.Milliseconds()))
	} else {
		s.metrics.RecordActiveEntries(ctx, s.name, 1)
		observability.LogInsert(s.logger, s.name, ks)
	}
	s.metrics.RecordInsert(ctx, s.name, replaced)

	if s.hook != nil {
		if replaced {
			s.hook.OnReplace(key, prev.handle, h)
		} else {
			s.hook.OnInsert(key, h)
		}
	}
}

// Lookup returns the handle for a key and whether it exists.
// Between Lookup returning and the handle being used, the entry may have
// been evicted or replaced; the returned handle stays valid either way.
func (s *Store[K, H]) Lookup(key K) (H, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.handle, ok
}

// Filter returns the handles whose keys satisfy pred.
// The result is a snapshot: it contains each matching handle exactly once,
// taken atomically against concurrent inserts and evictions.
//
// pred runs with the store lock held. It must be fast, must not block, and
// must not call back into the store.
func (s *Store[K, H]) Filter(pred Predicate[K]) []H {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]H, 0)
	for k, e := range s.entries {
		if pred(k) {
			matched = append(matched, e.handle)
		}
	}
	return matched
}

// Keys returns all keys currently tracked.
// The order is not guaranteed.
func (s *Store[K, H]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries currently tracked.
func (s *Store[K, H]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
