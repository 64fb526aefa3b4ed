package geom

import "fmt"

// Box is an axis-aligned hyper-rectangle, spanned by a lower and an upper
// bound of equal arity. Either side may be open (unbounded) in any dimension,
// so a box can be fully, partially or not at all bounded.
//
// Boxes are immutable by convention: all operations return new values.
type Box struct {
	Lo Bound
	Hi Bound
}

// NewBox creates a box from two bounds.
//
// The bounds must have equal arity; a mismatch is reported as
// ErrInvalidArgument.
func NewBox(lo, hi Bound) (Box, error) {
	if lo.Arity() != hi.Arity() {
		return Box{}, fmt.Errorf("%w: box bounds of arity %d and %d", ErrInvalidArgument,
			lo.Arity(), hi.Arity())
	}
	return Box{Lo: lo, Hi: hi}, nil
}

// Interval creates a fully bounded 1-dimensional box.
func Interval(lo, hi float64) Box {
	return Box{Lo: B(C(lo)), Hi: B(C(hi))}
}

// Rect creates a fully bounded 2-dimensional box.
func Rect(x1, y1, x2, y2 float64) Box {
	return Box{Lo: B(C(x1), C(y1)), Hi: B(C(x2), C(y2))}
}

// Cube creates a fully bounded 3-dimensional box.
func Cube(x1, y1, z1, x2, y2, z2 float64) Box {
	return Box{Lo: B(C(x1), C(y1), C(z1)), Hi: B(C(x2), C(y2), C(z2))}
}

// Arity returns the number of dimensions of the box.
func (b Box) Arity() int {
	return len(b.Lo)
}

// IsVoid reports whether the box is the zero value.
func (b Box) IsVoid() bool {
	return len(b.Lo) == 0 && len(b.Hi) == 0
}

// Bounded reports whether every dimension of the box is finite on both sides.
func (b Box) Bounded() bool {
	return b.Lo.Bounded() && b.Hi.Bounded()
}

// Contains reports whether other lies completely within b.
//
// An unbounded side of b contains everything in that direction; an unbounded
// side of other is only contained if b is unbounded there as well.
func (b Box) Contains(other Box) bool {
	assert(b.Arity() == other.Arity(), "contains: box arity mismatch")
	for d := range b.Lo {
		if b.Lo[d].fin && (!other.Lo[d].fin || other.Lo[d].val < b.Lo[d].val) {
			return false
		}
		if b.Hi[d].fin && (!other.Hi[d].fin || other.Hi[d].val > b.Hi[d].val) {
			return false
		}
	}
	return true
}

// Intersects reports whether b and other overlap. Boxes sharing only a
// boundary count as intersecting.
func (b Box) Intersects(other Box) bool {
	assert(b.Arity() == other.Arity(), "intersects: box arity mismatch")
	for d := range b.Lo {
		if b.Lo[d].fin && other.Hi[d].fin && b.Lo[d].val > other.Hi[d].val {
			return false
		}
		if other.Lo[d].fin && b.Hi[d].fin && other.Lo[d].val > b.Hi[d].val {
			return false
		}
	}
	return true
}

// Intersection clamps b and other to their common region.
//
// Per dimension the region is [max(los), min(his)], where unbounded sides are
// skipped and an all-unbounded side stays unbounded. The second return value
// is false if the region is empty in any dimension.
func (b Box) Intersection(other Box) (Box, bool) {
	assert(b.Arity() == other.Arity(), "intersection: box arity mismatch")
	n := b.Arity()
	lo := make(Bound, n)
	hi := make(Bound, n)
	for d := 0; d < n; d++ {
		lo[d] = maxBounded(b.Lo[d], other.Lo[d])
		hi[d] = minBounded(b.Hi[d], other.Hi[d])
		if lo[d].fin && hi[d].fin && lo[d].val > hi[d].val {
			return Box{}, false
		}
	}
	return Box{Lo: lo, Hi: hi}, true
}

// Union returns the smallest box covering both b and other. Unbounded sides
// absorb: the union is open wherever either operand is open.
func (b Box) Union(other Box) Box {
	assert(b.Arity() == other.Arity(), "union: box arity mismatch")
	n := b.Arity()
	lo := make(Bound, n)
	hi := make(Bound, n)
	for d := 0; d < n; d++ {
		lo[d] = minCoord(b.Lo[d], other.Lo[d])
		// Unbounded upper sides absorb a maximum the same way unbounded lower
		// sides absorb a minimum.
		if !b.Hi[d].fin || !other.Hi[d].fin {
			hi[d] = Unbounded
		} else if other.Hi[d].val > b.Hi[d].val {
			hi[d] = other.Hi[d]
		} else {
			hi[d] = b.Hi[d]
		}
	}
	return Box{Lo: lo, Hi: hi}
}

// Clamp replaces unbounded sides of the box with the corresponding capacity
// bounds, yielding a fully bounded box.
func (b Box) Clamp(c Capacity) Box {
	assert(b.Arity() == c.Arity(), "clamp: box and capacity arity mismatch")
	n := b.Arity()
	lo := make(Bound, n)
	hi := make(Bound, n)
	for d := 0; d < n; d++ {
		if b.Lo[d].fin {
			lo[d] = b.Lo[d]
		} else {
			lo[d] = C(c.Min[d])
		}
		if b.Hi[d].fin {
			hi[d] = b.Hi[d]
		} else {
			hi[d] = C(c.Max[d])
		}
	}
	return Box{Lo: lo, Hi: hi}
}

// Midpoint returns the center of a fully bounded box. Boxes with open sides
// have no midpoint and must be clamped against a capacity first.
func (b Box) Midpoint() (Point, error) {
	if !b.Bounded() {
		return nil, fmt.Errorf("%w: midpoint of box with unbounded sides", ErrInvalidArgument)
	}
	mid := make(Point, b.Arity())
	for d := range b.Lo {
		mid[d] = (b.Lo[d].val + b.Hi[d].val) / 2
	}
	return mid, nil
}

// SplitAt bisects the box at mid in every dimension and enumerates all 2^N
// combinations of lower and upper halves. Open sides stay open on the outer
// half of their dimension.
//
// Sub-box i takes the upper half in dimension d iff bit d of i is set.
func (b Box) SplitAt(mid Point) []Box {
	assert(b.Arity() == mid.Arity(), "split: box and midpoint arity mismatch")
	n := b.Arity()
	assert(n > 0, "split: box must have at least one dimension")
	parts := make([]Box, 1<<uint(n))
	for i := range parts {
		lo := make(Bound, n)
		hi := make(Bound, n)
		for d := 0; d < n; d++ {
			if i&(1<<uint(d)) == 0 {
				lo[d] = b.Lo[d]
				hi[d] = C(mid[d])
			} else {
				lo[d] = C(mid[d])
				hi[d] = b.Hi[d]
			}
		}
		parts[i] = Box{Lo: lo, Hi: hi}
	}
	return parts
}

// BinarySplit bisects the box at its midpoint, clamping open sides against the
// capacity to make the midpoint well defined. This is the sole subdivision
// rule used by box trees.
func (b Box) BinarySplit(c Capacity) []Box {
	mid, err := b.Clamp(c).Midpoint()
	assert(err == nil, "binary split: clamped box must be bounded")
	return b.SplitAt(mid)
}

// Equal reports whether both boxes have identical bounds, including the
// open/finite state of every coordinate.
func (b Box) Equal(other Box) bool {
	if b.Arity() != other.Arity() {
		return false
	}
	for d := range b.Lo {
		if b.Lo[d] != other.Lo[d] || b.Hi[d] != other.Hi[d] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return "[" + b.Lo.String() + b.Hi.String() + "]"
}
