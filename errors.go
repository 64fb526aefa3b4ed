package boxtree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("boxtree: invalid configuration")
	// ErrCorruptTree is reported by the structural invariant checkers; it
	// always indicates a tree algorithm bug, never an input error.
	ErrCorruptTree = errors.New("boxtree: corrupt tree structure")
)

// Arity mismatches between a tree and the boxes handed to its operations are
// reported as geom.ErrInvalidArgument, wrapped with context.
