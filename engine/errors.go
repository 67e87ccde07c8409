package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the engine's error taxonomy. CapacityExceeded
// does not exist: a full cache evicts internally and never surfaces an
// error.
var (
	// ErrInvalidArgument indicates an out-of-range or malformed request
	// parameter, including zero/negative step counts and indices.
	ErrInvalidArgument = errors.New("engine: invalid argument")

	// ErrNumericOverflow indicates a computation produced a non-finite
	// intermediate or final value.
	ErrNumericOverflow = errors.New("engine: numeric overflow")

	// ErrInvalidValue indicates an attempt to cache a non-finite value.
	ErrInvalidValue = errors.New("engine: invalid value")

	// ErrUnknownKind indicates a request with an unrecognized kind.
	ErrUnknownKind = errors.New("engine: unknown calculation kind")
)

// Error is a structured evaluation error carrying the offending
// request's kind and the violated constraint, so a presentation layer
// can map it outward without the engine knowing that mapping.
type Error struct {
	// Op is the operation that failed, e.g. "evaluate".
	Op string

	// Kind is the request's calculation kind.
	Kind Kind

	// Constraint describes the violated constraint.
	Constraint string

	// Cause is the sentinel or underlying error.
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("engine: %s %s: %s: %v", e.Op, e.Kind, e.Constraint, e.Cause)
}

// Unwrap returns the cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// invalidArgument builds a structured InvalidArgument error.
func invalidArgument(op string, kind Kind, constraint string) *Error {
	return &Error{Op: op, Kind: kind, Constraint: constraint, Cause: ErrInvalidArgument}
}
