/*
Package geom provides coordinate and box primitives for box search trees.

Coordinates come in two flavors: Point is fully bounded, while Bound allows
every dimension to be independently open towards infinity. A Box is spanned by
two Bounds of equal arity and therefore supports open, half-open and fully
unbounded regions; Capacity and Boundary add the growth bookkeeping box trees
need at their root.

Arity is fixed per value and checked eagerly: combining values of different
arity fails with ErrInvalidArgument at construction time, or panics on the
interior fast paths where constructors have already validated it.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package geom

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
