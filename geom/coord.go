package geom

import (
	"strconv"
	"strings"
)

// Coord is a scalar coordinate which is either finite or unbounded.
//
// The zero value is unbounded. Whether an unbounded coordinate stands for
// -infinity or +infinity depends on its position: as a lower bound of a box it
// is open towards -infinity, as an upper bound towards +infinity.
type Coord struct {
	val float64
	fin bool
}

// C creates a bounded coordinate with value v.
func C(v float64) Coord {
	return Coord{val: v, fin: true}
}

// Unbounded is the open coordinate, usable for either side of a box.
var Unbounded = Coord{}

// Bounded reports whether the coordinate carries a finite value.
func (c Coord) Bounded() bool {
	return c.fin
}

// Value returns the finite value of the coordinate, or 0 if it is unbounded.
func (c Coord) Value() float64 {
	return c.val
}

func (c Coord) String() string {
	if !c.fin {
		return "*"
	}
	return strconv.FormatFloat(c.val, 'g', -1, 64)
}

// minCoord returns the smaller of two coordinates, with unbounded absorbing:
// an unbounded side always wins a minimum.
func minCoord(a, b Coord) Coord {
	if !a.fin || !b.fin {
		return Unbounded
	}
	if b.val < a.val {
		return b
	}
	return a
}

// maxBounded returns the larger of two coordinates, skipping unbounded values:
// if one side is unbounded the other is returned, and only an all-unbounded
// pair stays unbounded.
func maxBounded(a, b Coord) Coord {
	if !a.fin {
		return b
	}
	if !b.fin {
		return a
	}
	if b.val > a.val {
		return b
	}
	return a
}

// minBounded is the skipping counterpart of maxBounded for minima.
func minBounded(a, b Coord) Coord {
	if !a.fin {
		return b
	}
	if !b.fin {
		return a
	}
	if b.val < a.val {
		return b
	}
	return a
}

// Bound is one corner of a box: an N-dimensional point whose coordinates may
// independently be unbounded.
type Bound []Coord

// B creates a bound from coordinates.
func B(coords ...Coord) Bound {
	return Bound(coords)
}

// Arity returns the number of dimensions of the bound.
func (b Bound) Arity() int {
	return len(b)
}

// Bounded reports whether every coordinate of the bound is finite.
func (b Bound) Bounded() bool {
	for _, c := range b {
		if !c.fin {
			return false
		}
	}
	return true
}

func (b Bound) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Point is a fully bounded N-dimensional point.
type Point []float64

// P creates a point from finite coordinate values.
func P(values ...float64) Point {
	return Point(values)
}

// Arity returns the number of dimensions of the point.
func (p Point) Arity() int {
	return len(p)
}

// Bound converts the point to an all-finite bound.
func (p Point) Bound() Bound {
	bound := make(Bound, len(p))
	for i, v := range p {
		bound[i] = C(v)
	}
	return bound
}

func (p Point) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}
