/*
Package boxtree implements a generalized box search tree: an in-memory spatial
index over axis-aligned boxes in a fixed number of dimensions. At arity 1, 2
and 3 the tree behaves like a binary interval tree, a quadtree and an octree
respectively; higher arities follow the same 2^N subdivision rule.

Clients insert payloads together with the box they occupy and query for all
payloads whose box overlaps a query range. A stored box that spans more than
one subtree boundary is fragmented across the affected children; queries may
therefore return several fragments of one logical item, and Deduplicate heals
fragments back into their original form.

The tree comes in two resource-management variants. Tree is persistent: every
mutation returns a new tree, old versions stay valid and may be read from any
number of goroutines without locking. MutableTree mutates shared node
structure in place and requires external single-writer discipline.

The root boundary grows adaptively: inserting a box outside the current
working box re-provisions the reserved capacity (roughly doubling it around
its midpoint) and rebuilds the tree. Leaf capacity and the depth limit are
configuration inputs; the depth limit bounds recursion even when many distinct
items collide on near-coincident coordinates.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package boxtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'boxtree'
func tracer() tracing.Trace {
	return tracing.Select("boxtree")
}
