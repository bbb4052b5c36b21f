package invz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Usage and configuration errors.
var (
	// ErrConsumed is returned when a Component or ComponentList that has
	// already been folded into a chain or Task is used again. Ownership
	// transfers on first use; the error is raised eagerly at the point of
	// reuse, never deferred to execution time.
	ErrConsumed = errors.New("already consumed")

	// ErrEmptyChain is returned when compiling or chaining zero parts.
	ErrEmptyChain = errors.New("chain is empty")

	// ErrArityMismatch is returned when a fan-out step built with Multi
	// receives a different number of arguments than it has branches.
	ErrArityMismatch = errors.New("argument count does not match branch count")
)

// StepError provides rich context about a transform failure during Task
// execution. It wraps the user callable's error with the step that raised
// it, the direction of travel, the arguments it was called with, and
// timing information. Unwrap exposes the original error unchanged, so
// errors.Is and errors.As see exactly what the transform returned - the
// engine adds context, never retry, suppression, or substitution.
type StepError struct {
	// Args are the positional arguments the failing transform received.
	Args []any

	// Timestamp is when the failure occurred.
	Timestamp time.Time

	// Err is the error returned by the user transform, unchanged.
	Err error

	// Path is the chain of step names from the outermost pipeline down to
	// the failing transform. Nested tasks prepend their wrapping step's
	// name as the error propagates outward.
	Path []Name

	// Step is the name of the failing transform.
	Step Name

	// Duration is how long the transform ran before failing.
	Duration time.Duration

	// Index is the failing step's position in its own pipeline, in
	// declared order (also for inverse traversal).
	Index int

	// Inverse reports whether the failure occurred during inverse
	// execution.
	Inverse bool

	// Timeout reports whether the failure was a context deadline.
	Timeout bool

	// Canceled reports whether the failure was a context cancellation.
	Canceled bool
}

// Error implements the error interface, providing a detailed message.
func (e *StepError) Error() string {
	direction := "step"
	if e.Inverse {
		direction = "inverse of step"
	}
	location := fmt.Sprintf("%s %q (index %d)", direction, e.Step, e.Index)

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *StepError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *StepError) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *StepError) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}
