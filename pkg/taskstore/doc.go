/*
Package taskstore provides a self-cleaning registry for in-flight
asynchronous work.

# Overview

taskstore associates caller-supplied keys with handles to running work so
that other parts of a program can find that work later, typically to cancel
it or await it. Every insertion spawns a reaper goroutine that parks on the
handle's done channel and removes the entry once the work reaches a terminal
state. The registry therefore never accumulates dead entries and needs no
periodic sweeping.

The library is built around:
  - Type-safe generics for keys and handle types
  - A single RWMutex guarding the map, never held across a blocking call
  - Generation-stamped entries so a superseded reaper cannot evict its
    key's replacement
  - OpenTelemetry integration for observability

# Basic Usage

Track tasks under string keys, look them up, and let reapers clean up:

	store := taskstore.New[string, *task.Task[string]]()

	t := task.Start(ctx, func(ctx context.Context) (string, error) {
	    return fetch(ctx, url)
	})
	store.Insert(url, t)

	if h, ok := store.Lookup(url); ok {
	    h.Cancel() // stop the in-flight fetch
	}

When a task finishes, its entry disappears on its own; Lookup simply stops
finding it.

# Replacement

Inserting under an occupied key replaces the entry. The displaced handle is
not cancelled and not awaited: it keeps running, invisible to lookups, and
its parked reaper wakes when it finishes, notices the key has moved on, and
exits without touching the newer entry. To cancel superseded work, register
a hook:

	store.SetHook(taskstore.HookFuncs[string, taskstore.Handle]{
	    Replace: func(key string, old, replacement taskstore.Handle) {
	        old.Cancel()
	    },
	})

# Filtering

Filter selects handles by key and returns a snapshot:

	stale := store.Filter(taskstore.In("a.pdf", "b.pdf"))
	for _, h := range stale {
	    h.Cancel()
	}

Predicates compose with And, Or, Not, In, and All.

# Handles

The store accepts anything implementing Handle: Cancel, Cancelled, Done,
and Err. The task subpackage provides a ready-made implementation with
typed results, panic capture, and context-based cancellation. Custom
backends only need to close their done channel exactly once and report
their terminal error through Err.

# Lifetime Coupling

An entry lives exactly as long as its handle runs. A handle that never
terminates keeps its entry visible and its reaper goroutine parked forever;
the store has no Close and no forced eviction. Reapers parked on a channel
cost no CPU. Use StartMonitor to surface entries alive past a threshold:

	stop := store.StartMonitor(30*time.Second, 5*time.Minute)
	defer stop()

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	store := taskstore.New[string, taskstore.Handle](
	    taskstore.WithName("downloads"),
	    taskstore.WithLogger(logger),
	    taskstore.WithMetrics(true),
	    taskstore.WithTracing(true),
	)

Logs include structured fields: store, key, outcome, age_ms.
OpenTelemetry metrics: taskstore.inserts, taskstore.evictions,
taskstore.entry.age_ms, taskstore.entries.active, taskstore.entries.slow.
OpenTelemetry tracing: one taskstore.entry span per insertion, closed with
the entry's outcome.

# Thread Safety

  - Store IS safe for concurrent use
  - SetHook must be called before the store is shared
  - Hook callbacks run outside the store lock
  - Filter predicates run under the store lock and must not call back in

# Subpackages

  - task: cancellable, awaitable work units that satisfy Handle
  - config: YAML/JSON file loading for store settings
  - observability: logging, metrics, and tracing helpers
*/
package taskstore
