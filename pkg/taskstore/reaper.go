package taskstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/woin2ee/taskstore/pkg/taskstore/observability"
)

// Outcome classifies how a tracked entry left the store.
type Outcome string

// Entry outcome constants.
const (
	// OutcomeSucceeded means the handle finished without error.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means the handle finished with an error.
	OutcomeFailed Outcome = "failed"

	// OutcomeCancelled means the handle finished after cancellation.
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeReplaced means a newer insert displaced the entry before its
	// handle finished. Reported by Insert, never by a reaper.
	OutcomeReplaced Outcome = "replaced"
)

// reap waits for the handle inserted at generation gen to finish, then
// removes its entry if it is still the current one for key. One reaper runs
// per insertion; it parks on the done channel without holding the lock and
// makes a single eviction attempt.
//
// A reaper never takes down the process. Panics, including panics from an
// OnEvict hook, are swallowed here.
func (s *Store[K, H]) reap(key K, gen uint64, done <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogReaperPanic(s.logger, s.name, fmt.Sprint(key), r)
		}
	}()

	<-done

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.generation != gen {
		// A newer insert owns the key; that entry has its own reaper.
		s.mu.Unlock()
		return
	}
	delete(s.entries, key)
	s.mu.Unlock()

	outcome := classifyOutcome(e.handle)
	age := time.Since(e.insertedAt)
	ctx := context.Background()

	s.spans.EndSpanWithOutcome(e.span, string(outcome), e.handle.Err())
	s.metrics.RecordEviction(ctx, s.name, string(outcome), age)
	s.metrics.RecordActiveEntries(ctx, s.name, -1)
	observability.LogEvict(s.logger, s.name, fmt.Sprint(key), string(outcome), float64(age.Milliseconds()))

	if s.hook != nil {
		s.hook.OnEvict(key, e.handle, outcome, age)
	}
}

// classifyOutcome maps a terminal handle to its eviction outcome.
// Only meaningful after the handle's done channel has closed.
func classifyOutcome(h Handle) Outcome {
	err := h.Err()
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
