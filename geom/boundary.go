package geom

import "fmt"

// growthFactor scales capacity bounds outward from the midpoint on every
// growth step, the spatial analog of amortized dynamic-array doubling.
const growthFactor = 2

// Capacity is a fully bounded region reserved for a box tree to grow into.
// The tree root compares inserted boxes against its capacity-derived boundary
// to decide when it must re-partition.
type Capacity struct {
	Min Point
	Max Point
}

// NewCapacity creates a capacity from two fully bounded points of equal
// arity. A mismatch is reported as ErrInvalidArgument.
func NewCapacity(min, max Point) (Capacity, error) {
	if min.Arity() != max.Arity() {
		return Capacity{}, fmt.Errorf("%w: capacity points of arity %d and %d",
			ErrInvalidArgument, min.Arity(), max.Arity())
	}
	return Capacity{Min: min, Max: max}, nil
}

// Arity returns the number of dimensions of the capacity.
func (c Capacity) Arity() int {
	return len(c.Min)
}

// Box returns the capacity region as a fully bounded box.
func (c Capacity) Box() Box {
	return Box{Lo: c.Min.Bound(), Hi: c.Max.Bound()}
}

func (c Capacity) String() string {
	return "cap[" + c.Min.String() + c.Max.String() + "]"
}

// Boundary pairs the working box a tree actually partitions with the capacity
// reserved for root growth. Only the root boundary ever changes after
// creation; subtree boxes are fixed sub-boxes of their parent.
type Boundary struct {
	Capacity Capacity
	Box      Box
}

// NewBoundary creates a boundary from a capacity and a working box of equal
// arity. A mismatch is reported as ErrInvalidArgument.
func NewBoundary(c Capacity, b Box) (Boundary, error) {
	if c.Arity() != b.Arity() {
		return Boundary{}, fmt.Errorf("%w: capacity arity %d does not match box arity %d",
			ErrInvalidArgument, c.Arity(), b.Arity())
	}
	return Boundary{Capacity: c, Box: b}, nil
}

// Arity returns the number of dimensions of the boundary.
func (bd Boundary) Arity() int {
	return len(bd.Capacity.Min)
}

// Contains reports whether the working box contains b.
func (bd Boundary) Contains(b Box) bool {
	return bd.Box.Contains(b)
}

// Split bisects the working box into 2^N sub-boxes, using the capacity to
// clamp open sides before the midpoint is taken.
func (bd Boundary) Split() []Box {
	return bd.Box.BinarySplit(bd.Capacity)
}

// Grow expands the boundary to make room for box b.
//
// Per dimension, the capacity becomes the union of the old capacity and the
// box, scaled outward by growthFactor from the union's midpoint. In a
// dimension where b has an open side the capacity is left untouched; the
// working box still grows there.
//
// The working box becomes exactly old box ∪ b and is not rescaled, so box and
// capacity need not cover each other after growth.
func (bd Boundary) Grow(b Box) Boundary {
	assert(bd.Arity() == b.Arity(), "grow: boundary and box arity mismatch")
	n := bd.Arity()
	min := make(Point, n)
	max := make(Point, n)
	for d := 0; d < n; d++ {
		if !b.Lo[d].fin || !b.Hi[d].fin {
			min[d] = bd.Capacity.Min[d]
			max[d] = bd.Capacity.Max[d]
			continue
		}
		lo := bd.Capacity.Min[d]
		if b.Lo[d].val < lo {
			lo = b.Lo[d].val
		}
		hi := bd.Capacity.Max[d]
		if b.Hi[d].val > hi {
			hi = b.Hi[d].val
		}
		mid := (lo + hi) / 2
		min[d] = mid + growthFactor*(lo-mid)
		max[d] = mid + growthFactor*(hi-mid)
	}
	return Boundary{
		Capacity: Capacity{Min: min, Max: max},
		Box:      bd.Box.Union(b),
	}
}
