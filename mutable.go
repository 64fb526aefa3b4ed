package boxtree

import (
	"fmt"

	"github.com/npillmayer/boxtree/geom"
)

// MutableTree is the in-place variant of the box search tree.
//
// It shares the node representation and all search semantics with Tree, but
// mutators modify shared node state (item lists, child slots) instead of
// returning new versions. Every node is owned exclusively by its parent, or
// by the tree handle for the root; a leaf is promoted to a branch by the
// parent swapping out the owned child slot.
//
// MutableTree requires external single-writer (or read-write lock)
// discipline: it is not safe for concurrent mutation, and readers running
// concurrently with a mutation may observe partial updates.
type MutableTree[A comparable] struct {
	cfg      Config
	boundary geom.Boundary
	root     treeNode[A]
}

// NewMutable creates an empty in-place tree over the given boundary.
func NewMutable[A comparable](boundary geom.Boundary, cfg Config) (*MutableTree[A], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if boundary.Arity() == 0 {
		return nil, fmt.Errorf("%w: boundary must have at least one dimension",
			geom.ErrInvalidArgument)
	}
	cfg = cfg.normalized()
	return &MutableTree[A]{
		cfg:      cfg,
		boundary: boundary,
		root:     newLeaf[A](boundary.Box, 0),
	}, nil
}

// NewMutableFrom creates an in-place tree and bulk-loads items via repeated
// insert.
func NewMutableFrom[A comparable](boundary geom.Boundary, items []BoxedPayload[A], cfg Config) (*MutableTree[A], error) {
	tree, err := NewMutable[A](boundary, cfg)
	if err != nil {
		return nil, err
	}
	if err := tree.InsertAll(items); err != nil {
		return nil, err
	}
	return tree, nil
}

// Config returns the effective tree configuration.
func (t *MutableTree[A]) Config() Config {
	return t.cfg
}

// Boundary returns the current root boundary.
func (t *MutableTree[A]) Boundary() geom.Boundary {
	return t.boundary
}

// Len returns the number of stored items, counting fragments individually.
func (t *MutableTree[A]) Len() int {
	return countItems[A](t.root)
}

// IsEmpty reports whether the tree stores no items.
func (t *MutableTree[A]) IsEmpty() bool {
	return countItems[A](t.root) == 0
}

// ForEachItem walks stored items (fragments included) in child order.
func (t *MutableTree[A]) ForEachItem(fn func(item BoxedPayload[A]) bool) {
	if fn == nil {
		return
	}
	forEachItem(t.root, fn)
}

func (t *MutableTree[A]) checkArity(b geom.Box) error {
	if b.Arity() != t.boundary.Arity() {
		return fmt.Errorf("%w: box arity %d does not match tree arity %d",
			geom.ErrInvalidArgument, b.Arity(), t.boundary.Arity())
	}
	return nil
}

// Insert adds one item, growing the root boundary first if the item's box is
// not contained in the working box.
func (t *MutableTree[A]) Insert(item BoxedPayload[A]) error {
	if err := t.checkArity(item.Box); err != nil {
		return err
	}
	if !t.boundary.Contains(item.Box) {
		t.growFor(item)
		return nil
	}
	t.root = t.insertSlot(t.root, item)
	return nil
}

// InsertAll adds items one by one.
func (t *MutableTree[A]) InsertAll(items []BoxedPayload[A]) error {
	for _, item := range items {
		if err := t.Insert(item); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops every stored item matching the given box/payload pair,
// fragments included. Removing an absent item is a no-op.
func (t *MutableTree[A]) Remove(item BoxedPayload[A]) error {
	if err := t.checkArity(item.Box); err != nil {
		return err
	}
	removeInPlace(t.root, item)
	return nil
}

// Query returns all stored items whose box intersects rng; see Tree.Query for
// the fragment and boundary-touch caveats.
func (t *MutableTree[A]) Query(rng geom.Box) ([]BoxedPayload[A], error) {
	if err := t.checkArity(rng); err != nil {
		return nil, err
	}
	return queryNode[A](t.root, rng, nil), nil
}

// Clear empties every leaf while keeping the branch structure.
func (t *MutableTree[A]) Clear() {
	clearInPlace[A](t.root)
}

// Copy returns a deep structural clone which can be mutated independently of
// the receiver.
func (t *MutableTree[A]) Copy() *MutableTree[A] {
	return &MutableTree[A]{
		cfg:      t.cfg,
		boundary: t.boundary,
		root:     cloneDeep[A](t.root),
	}
}

// growFor expands the root boundary for the item's box and rebuilds the tree
// in place over the fresh partition.
func (t *MutableTree[A]) growFor(item BoxedPayload[A]) {
	kept := Deduplicate[A](collectItems[A](t.root))
	t.boundary = t.boundary.Grow(item.Box)
	tracer().Debugf("boxtree root grows to %v for item %v", t.boundary.Box, item.Box)
	t.root = newLeaf[A](t.boundary.Box, 0)
	for _, existing := range kept {
		t.root = t.insertSlot(t.root, existing)
	}
	t.root = t.insertSlot(t.root, item)
}

// insertSlot adds an item to the node held in an owned child slot and returns
// the node to store back into the slot. The return value differs from n only
// when a full leaf is promoted to a branch; a leaf cannot change its own type
// in place, so the caller replaces the slot content wholesale.
func (t *MutableTree[A]) insertSlot(n treeNode[A], item BoxedPayload[A]) treeNode[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		if leafAccepts(t.cfg, leaf) {
			prependItem(leaf, item)
			return n
		}
		branch := subdivide[A](t.boundary.Capacity, leaf.bounds, leaf.depth)
		for _, existing := range leaf.items {
			t.routeInto(branch, existing)
		}
		t.routeInto(branch, item)
		return branch
	}
	t.routeInto(n.(*branchNode[A]), item)
	return n
}

// routeInto distributes an item over the children of a branch, fragmenting it
// when it spans more than one child.
func (t *MutableTree[A]) routeInto(branch *branchNode[A], item BoxedPayload[A]) {
	type hit struct {
		slot int
		sect geom.Box
	}
	hits := make([]hit, 0, 2)
	for i, child := range branch.children {
		if sect, ok := item.Box.Intersection(child.box()); ok {
			hits = append(hits, hit{slot: i, sect: sect})
		}
	}
	assert(len(hits) > 0, "branch insert: item intersects no child of its branch")
	if len(hits) == 1 {
		slot := hits[0].slot
		branch.children[slot] = t.insertSlot(branch.children[slot], item)
		return
	}
	for _, h := range hits {
		branch.children[h.slot] = t.insertSlot(branch.children[h.slot], item.fragment(h.sect))
	}
}

// prependItem inserts an item at the front of a leaf's item list in place.
func prependItem[A comparable](leaf *leafNode[A], item BoxedPayload[A]) {
	var zero BoxedPayload[A]
	leaf.items = append(leaf.items, zero)
	copy(leaf.items[1:], leaf.items)
	leaf.items[0] = item
}

// removeInPlace drops items matching target, clipping the target box to
// child boxes on the way down just like the persistent variant.
func removeInPlace[A comparable](n treeNode[A], target BoxedPayload[A]) {
	if leaf, ok := n.(*leafNode[A]); ok {
		kept := leaf.items[:0]
		for _, item := range leaf.items {
			if item.matches(target) {
				continue
			}
			kept = append(kept, item)
		}
		leaf.items = kept
		return
	}
	for _, child := range n.(*branchNode[A]).children {
		sect, ok := target.Box.Intersection(child.box())
		if !ok {
			continue
		}
		removeInPlace(child, BoxedPayload[A]{Box: sect, Payload: target.Payload})
	}
}

func clearInPlace[A comparable](n treeNode[A]) {
	if leaf, ok := n.(*leafNode[A]); ok {
		leaf.items = nil
		return
	}
	for _, child := range n.(*branchNode[A]).children {
		clearInPlace[A](child)
	}
}

func cloneDeep[A comparable](n treeNode[A]) treeNode[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		return &leafNode[A]{
			bounds: leaf.bounds,
			depth:  leaf.depth,
			items:  append([]BoxedPayload[A](nil), leaf.items...),
		}
	}
	branch := n.(*branchNode[A])
	children := make([]treeNode[A], len(branch.children))
	for i, child := range branch.children {
		children[i] = cloneDeep[A](child)
	}
	return &branchNode[A]{bounds: branch.bounds, depth: branch.depth, children: children}
}
