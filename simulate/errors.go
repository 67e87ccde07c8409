package simulate

import (
	"errors"
	"fmt"
)

// Sentinel errors for simulation runs.
var (
	// ErrZeroSteps is returned for a step count below 1; there is no
	// physically meaningful zero-step simulation.
	ErrZeroSteps = errors.New("simulate: step count must be at least 1")

	// ErrTooManySteps is returned when a step count exceeds the
	// stepper's configured maximum.
	ErrTooManySteps = errors.New("simulate: step count exceeds configured maximum")

	// ErrOverflow is returned when a computation produces a non-finite
	// intermediate or final value.
	ErrOverflow = errors.New("simulate: non-finite value")

	// ErrInvalidParam is returned for an out-of-range model parameter.
	ErrInvalidParam = errors.New("simulate: invalid parameter")
)

// OverflowError reports a run aborted by a non-finite intermediate
// value, carrying the last step that was still valid.
type OverflowError struct {
	// Model is the name of the model that aborted.
	Model string

	// Step is the step index that produced the non-finite value.
	Step int

	// LastValid is the last step index with a finite value, -1 when the
	// very first step overflowed.
	LastValid int
}

// Error returns the error message.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("simulate: %s: non-finite value at step %d (last valid step %d)",
		e.Model, e.Step, e.LastValid)
}

// Is reports whether this error matches the target.
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}
