package taskstore

import "time"

// Hook provides lifecycle callbacks for store mutations.
//
// Callbacks run outside the store lock: OnInsert and OnReplace on the
// goroutine calling Insert, OnEvict on the evicting reaper's goroutine.
// A panic in OnEvict is swallowed with the rest of the reaper's failures;
// panics in OnInsert and OnReplace surface to the caller of Insert.
//
// Because callbacks run unlocked, the store may have moved on by the time
// one observes it; in particular, a handle already terminal at insert time
// can be evicted, and OnEvict delivered, while OnInsert is still in flight.
// Callbacks may call back into the store.
//
// Note: Hook is set via Store.SetHook() rather than an Option to maintain
// proper generic typing.
//
// Example use cases:
//   - Cancel a displaced handle when newer work supersedes it (OnReplace)
//   - Count outcomes or release per-key resources (OnEvict)
type Hook[K comparable, H Handle] interface {
	// OnInsert is called after a handle is tracked under a key that had
	// no entry.
	OnInsert(key K, h H)

	// OnReplace is called after an insert displaces an existing entry.
	// The displaced handle keeps running and its reaper stays parked;
	// cancel old here if stale work should not continue.
	OnReplace(key K, old, replacement H)

	// OnEvict is called after a reaper removes a terminal entry.
	// age is how long the entry lived in the store.
	OnEvict(key K, h H, outcome Outcome, age time.Duration)
}

// HookFuncs adapts plain functions to the Hook interface.
// Nil fields are no-ops, so callers implement only the callbacks they need.
type HookFuncs[K comparable, H Handle] struct {
	Insert  func(key K, h H)
	Replace func(key K, old, replacement H)
	Evict   func(key K, h H, outcome Outcome, age time.Duration)
}

// Compile-time interface check.
var _ Hook[string, Handle] = HookFuncs[string, Handle]{}

// OnInsert calls the Insert func if set.
func (f HookFuncs[K, H]) OnInsert(key K, h H) {
	if f.Insert != nil {
		f.Insert(key, h)
	}
}

// OnReplace calls the Replace func if set.
func (f HookFuncs[K, H]) OnReplace(key K, old, replacement H) {
	if f.Replace != nil {
		f.Replace(key, old, replacement)
	}
}

// OnEvict calls the Evict func if set.
func (f HookFuncs[K, H]) OnEvict(key K, h H, outcome Outcome, age time.Duration) {
	if f.Evict != nil {
		f.Evict(key, h, outcome, age)
	}
}
