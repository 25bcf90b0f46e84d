package task

import "fmt"

// PanicError captures panic information from a task's function.
// It includes the stack trace for debugging. A task that panicked is a
// terminal failure; the panic never propagates to other goroutines.
type PanicError struct {
	// TaskID is the identifier of the task that panicked.
	TaskID string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Value)
}
