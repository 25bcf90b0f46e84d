// Package task provides cancellable, awaitable units of asynchronous work.
//
// A Task wraps a function running in its own goroutine with cooperative
// cancellation, panic capture, and a typed result. Tasks satisfy the
// taskstore Handle contract, so they can be tracked and reaped by a Store,
// but they are usable on their own.
package task

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Func is the unit of work a Task runs. It must observe ctx so that
// cancellation can take effect; a Func that ignores ctx runs to completion
// regardless of Cancel.
type Func[R any] func(ctx context.Context) (R, error)

// State represents the current state of a task.
type State string

// Task state constants.
const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal returns true for states where the task has finished.
func (s State) Terminal() bool {
	return s != StateRunning
}

// Status is a point-in-time snapshot of a task.
type Status struct {
	// ID uniquely identifies the task.
	ID string

	// State is the task state at snapshot time.
	State State

	// Cancelled reports whether cancellation has been requested.
	Cancelled bool

	// StartedAt is when the task started.
	StartedAt time.Time

	// CompletedAt is when the task reached a terminal state.
	// Zero while the task is running.
	CompletedAt time.Time

	// Err is the terminal error, nil before completion and on success.
	Err error
}

// Task is a unit of asynchronous work with a typed result.
// All methods are safe for concurrent use.
type Task[R any] struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.RWMutex
	state       State
	cancelled   bool
	result      R
	err         error
	startedAt   time.Time
	completedAt time.Time
}

// Option configures a Task at start time.
type Option func(*taskConfig)

// taskConfig holds configuration applied by Options.
type taskConfig struct {
	id string
}

// WithID sets the task identifier.
// If not set, an ID of the form "task-xxxxxxxx" is generated.
func WithID(id string) Option {
	return func(c *taskConfig) {
		if id != "" {
			c.id = id
		}
	}
}

// Start runs fn in a new goroutine and returns a handle to it immediately.
// The goroutine is already running when Start returns.
//
// fn receives a context derived from ctx; Cancel cancels it, and
// cancellation of ctx propagates to it. Panics in fn are recovered and
// recorded as a *PanicError terminal failure.
//
// Start panics if fn is nil. A nil ctx is treated as context.Background().
func Start[R any](ctx context.Context, fn Func[R], opts ...Option) *Task[R] {
	if fn == nil {
		panic("task: fn cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = fmt.Sprintf("task-%s", uuid.New().String()[:8])
	}

	runCtx, cancel := context.WithCancel(ctx)
	t := &Task[R]{
		id:        cfg.id,
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     StateRunning,
		startedAt: time.Now(),
	}

	go t.run(runCtx, fn)
	return t
}

// run executes fn, records the terminal outcome, and closes the done channel.
func (t *Task[R]) run(ctx context.Context, fn Func[R]) {
	result, err := invoke(ctx, t.id, fn)

	t.mu.Lock()
	t.result = result
	t.err = err
	t.state = classify(err)
	t.completedAt = time.Now()
	t.mu.Unlock()

	// Release the derived context before announcing completion.
	t.cancel()
	close(t.done)
}

// invoke runs fn with panic recovery.
func invoke[R any](ctx context.Context, taskID string, fn Func[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				TaskID: taskID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	return fn(ctx)
}

// classify maps a terminal error to a task state.
func classify(err error) State {
	switch {
	case err == nil:
		return StateSucceeded
	case errors.Is(err, context.Canceled):
		return StateCancelled
	default:
		return StateFailed
	}
}

// ID returns the task identifier.
func (t *Task[R]) ID() string {
	return t.id
}

// Cancel requests cooperative cancellation by cancelling the context passed
// to the task's function. Cancel is idempotent and returns immediately; the
// task reaches a terminal state only when its function returns.
//
// A task that finishes successfully before observing the request stays
// succeeded.
func (t *Task[R]) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cancel()
}

// Cancelled reports whether cancellation has been requested.
func (t *Task[R]) Cancelled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancelled
}

// Done returns a channel that is closed when the task reaches a terminal
// state. The channel is never written to and never reopened.
func (t *Task[R]) Done() <-chan struct{} {
	return t.done
}

// Err returns the terminal error. It is nil while the task is running and
// nil after success; read it after Done is closed for a meaningful value.
func (t *Task[R]) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// State returns the current task state.
func (t *Task[R]) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Status returns a point-in-time snapshot of the task.
func (t *Task[R]) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Status{
		ID:          t.id,
		State:       t.state,
		Cancelled:   t.cancelled,
		StartedAt:   t.startedAt,
		CompletedAt: t.completedAt,
		Err:         t.err,
	}
}

// Wait blocks until the task reaches a terminal state or ctx is done.
// On completion it returns the task's result and terminal error; if ctx
// expires first it returns the zero result and ctx's error, and the task
// keeps running.
func (t *Task[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-t.done:
		t.mu.RLock()
		defer t.mu.RUnlock()
		return t.result, t.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
