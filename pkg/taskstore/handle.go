package taskstore

// Handle is the contract between a Store and the asynchronous work it
// tracks. Any execution backend can be stored by exposing these four
// methods; *task.Task satisfies Handle.
//
// The store never drives a handle. It requests nothing, awaits nothing on
// the caller's behalf, and reads Err and Cancelled only after Done is
// closed. Cancel is surfaced so that callers holding a handle retrieved
// from the store can stop its work.
type Handle interface {
	// Cancel requests cooperative cancellation of the underlying work.
	// It must be idempotent and must not block.
	Cancel()

	// Cancelled reports whether cancellation has been requested.
	Cancelled() bool

	// Done returns a channel that is closed when the work reaches a
	// terminal state. It must return the same non-nil channel on every
	// call.
	Done() <-chan struct{}

	// Err returns the terminal error. Its value is meaningful only after
	// Done is closed: nil means the work succeeded, an error satisfying
	// errors.Is(err, context.Canceled) means it was cancelled, and any
	// other error means it failed.
	Err() error
}
