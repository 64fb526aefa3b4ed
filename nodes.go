package boxtree

import "github.com/npillmayer/boxtree/geom"

// treeNode is the sealed Leaf/Branch contract shared by both tree variants.
// The persistent variant treats nodes as immutable and shares them between
// tree versions; the in-place variant owns each node exclusively through its
// parent (or the tree handle, for the root).
type treeNode[A comparable] interface {
	isLeaf() bool
	box() geom.Box
}

type leafNode[A comparable] struct {
	bounds geom.Box
	depth  int
	items  []BoxedPayload[A]
}

func (l *leafNode[A]) isLeaf() bool  { return true }
func (l *leafNode[A]) box() geom.Box { return l.bounds }

type branchNode[A comparable] struct {
	bounds geom.Box
	depth  int
	// children has exactly 2^arity entries, ordered by the binary-split
	// bitmask of bounds; their boxes partition bounds.
	children []treeNode[A]
}

func (b *branchNode[A]) isLeaf() bool  { return false }
func (b *branchNode[A]) box() geom.Box { return b.bounds }

func newLeaf[A comparable](bounds geom.Box, depth int) *leafNode[A] {
	return &leafNode[A]{bounds: bounds, depth: depth}
}

// subdivide creates the branch replacing a full leaf: 2^N fresh empty leaves
// over the binary split of bounds, one level down. Open sides of bounds are
// clamped against the tree capacity to make the split midpoint well defined.
func subdivide[A comparable](capacity geom.Capacity, bounds geom.Box, depth int) *branchNode[A] {
	parts := bounds.BinarySplit(capacity)
	children := make([]treeNode[A], len(parts))
	for i, part := range parts {
		children[i] = newLeaf[A](part, depth+1)
	}
	return &branchNode[A]{bounds: bounds, depth: depth, children: children}
}

// leafAccepts reports whether a leaf may take one more item without being
// split. Leaves at the depth limit always accept, trading occupancy bounds
// for guaranteed termination.
func leafAccepts[A comparable](cfg Config, leaf *leafNode[A]) bool {
	return len(leaf.items) < cfg.LeafCapacity || leaf.depth == cfg.DepthLimit
}

// countItems returns the number of stored items (counting fragments) under n.
func countItems[A comparable](n treeNode[A]) int {
	if leaf, ok := n.(*leafNode[A]); ok {
		return len(leaf.items)
	}
	total := 0
	for _, child := range n.(*branchNode[A]).children {
		total += countItems[A](child)
	}
	return total
}

// queryNode collects all items under n intersecting rng, clipping the range
// to each child's box on the way down. Subtrees disjoint from the range are
// skipped entirely.
func queryNode[A comparable](n treeNode[A], rng geom.Box, out []BoxedPayload[A]) []BoxedPayload[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		for _, item := range leaf.items {
			if item.Box.Intersects(rng) {
				out = append(out, item)
			}
		}
		return out
	}
	branch := n.(*branchNode[A])
	if !branch.bounds.Intersects(rng) {
		return out
	}
	for _, child := range branch.children {
		sect, ok := rng.Intersection(child.box())
		if !ok {
			continue
		}
		out = queryNode(child, sect, out)
	}
	return out
}

// forEachItem walks stored items (fragments included) in child order.
// Iteration stops early if the callback returns false.
func forEachItem[A comparable](n treeNode[A], fn func(item BoxedPayload[A]) bool) bool {
	if leaf, ok := n.(*leafNode[A]); ok {
		for _, item := range leaf.items {
			if !fn(item) {
				return false
			}
		}
		return true
	}
	for _, child := range n.(*branchNode[A]).children {
		if !forEachItem(child, fn) {
			return false
		}
	}
	return true
}

func collectItems[A comparable](n treeNode[A]) []BoxedPayload[A] {
	items := make([]BoxedPayload[A], 0, countItems[A](n))
	forEachItem(n, func(item BoxedPayload[A]) bool {
		items = append(items, item)
		return true
	})
	return items
}
