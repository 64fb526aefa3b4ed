package geom

import "errors"

// ErrInvalidArgument signals that geometric values of mismatched arity were
// combined, or that an operation requiring a bounded box received an open one.
// It is the only error this package produces; all other operations are total.
var ErrInvalidArgument = errors.New("geom: invalid argument")
