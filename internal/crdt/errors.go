package crdt

import "errors"

// CRDT errors. All of them are caller contract violations: retrying with the
// same input fails the same way.
var (
	// ErrInvalidArgument indicates a negative delta passed to a counter
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownType indicates a type tag outside the known variant set
	ErrUnknownType = errors.New("unknown CRDT type")
)
