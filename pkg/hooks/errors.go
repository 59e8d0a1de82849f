package hooks

import (
	"errors"
	"fmt"
)

// Error codes used across the runtime. Codes are stable identifiers
// suitable for matching in logs and error-boundary sinks.
const (
	CodeSlotOrder    = "E001" // slot call pattern changed between renders
	CodeReducer      = "E002" // reducer transition panicked
	CodeEffectRun    = "E003" // effect body panicked
	CodeEffectClean  = "E004" // effect cleanup panicked
	CodeDepsMismatch = "E005" // dependency list length changed between renders
)

// ErrUnmounted is returned when an operation targets an instance that
// has already been unmounted.
var ErrUnmounted = errors.New("hooks: instance already unmounted")

// ErrInstanceFailed is returned when a render pass is requested for an
// instance that already failed a render with a slot order violation.
// Order violations are structural and non-recoverable per instance.
var ErrInstanceFailed = errors.New("hooks: instance failed a previous render")

// SlotOrderError reports that an instance's slot call pattern changed
// between two renders. This is a fatal usage error: the render that
// produced it is aborted and the instance should not be trusted to
// render again.
type SlotOrderError struct {
	// Instance is the ID of the offending instance.
	Instance uint64

	// Index is the slot position where the mismatch was detected.
	Index int

	// Want and Got are the slot kinds involved in a kind mismatch.
	// Both are zero when the violation is a count mismatch.
	Want, Got Kind

	// WantCount and GotCount are the slot counts involved in a count
	// mismatch. Both are zero when the violation is a kind mismatch.
	WantCount, GotCount int
}

// Error implements the error interface.
func (e *SlotOrderError) Error() string {
	if e.Want != 0 || e.Got != 0 {
		return fmt.Sprintf("[%s] slot order changed at index %d: expected %s, got %s (instance %d)",
			CodeSlotOrder, e.Index, e.Want, e.Got, e.Instance)
	}
	return fmt.Sprintf("[%s] slot order changed: expected %d slots, got %d (instance %d)",
		CodeSlotOrder, e.WantCount, e.GotCount, e.Instance)
}

// ReducerError reports a panic inside a reducer transition function.
// The dispatch that triggered it leaves the slot value unchanged, so
// the error is recoverable at the dispatch call site.
type ReducerError struct {
	Instance uint64
	Index    int

	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *ReducerError) Error() string {
	return fmt.Sprintf("[%s] reducer transition panicked at slot %d: %v (instance %d)",
		CodeReducer, e.Index, e.Value, e.Instance)
}

// Unwrap exposes a wrapped error when the panic value was itself an error.
func (e *ReducerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// EffectRunError reports a panic inside an effect body. The failure is
// isolated to the effect's slot: the scheduler keeps draining the rest
// of the queue.
type EffectRunError struct {
	Instance uint64
	Index    int
	Value    any
}

// Error implements the error interface.
func (e *EffectRunError) Error() string {
	return fmt.Sprintf("[%s] effect body panicked at slot %d: %v (instance %d)",
		CodeEffectRun, e.Index, e.Value, e.Instance)
}

// Unwrap exposes a wrapped error when the panic value was itself an error.
func (e *EffectRunError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// EffectCleanupError reports a panic inside an effect cleanup function.
// Like EffectRunError, the failure is isolated per slot.
type EffectCleanupError struct {
	Instance uint64
	Index    int
	Value    any
}

// Error implements the error interface.
func (e *EffectCleanupError) Error() string {
	return fmt.Sprintf("[%s] effect cleanup panicked at slot %d: %v (instance %d)",
		CodeEffectClean, e.Index, e.Value, e.Instance)
}

// Unwrap exposes a wrapped error when the panic value was itself an error.
func (e *EffectCleanupError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// DepsLengthError is a diagnostic reported when a dependency list
// changes length between renders. The comparator treats the list as
// changed rather than failing, so disciplined callers still make
// progress, but the mistake is surfaced through the error sink.
type DepsLengthError struct {
	Instance uint64
	Index    int
	PrevLen  int
	NextLen  int
}

// Error implements the error interface.
func (e *DepsLengthError) Error() string {
	return fmt.Sprintf("[%s] dependency list length changed at slot %d: %d -> %d (instance %d)",
		CodeDepsMismatch, e.Index, e.PrevLen, e.NextLen, e.Instance)
}
