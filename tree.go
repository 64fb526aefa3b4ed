package boxtree

import (
	"fmt"

	"github.com/npillmayer/boxtree/geom"
)

// Tree is a persistent box search tree.
//
// Every mutating operation returns a new tree handle and leaves the receiver
// untouched; subtrees not affected by a mutation are shared between versions.
// Because no node is ever modified after construction, any tree version may
// be read concurrently from multiple goroutines without locking, and stale
// handles remain valid and queryable indefinitely.
type Tree[A comparable] struct {
	cfg      Config
	boundary geom.Boundary
	root     treeNode[A]
}

// New creates an empty persistent tree over the given boundary.
//
// A zero Config selects the package defaults (leaf capacity 256, depth limit
// 32); use ConfigFromEnv to source defaults from the environment instead.
func New[A comparable](boundary geom.Boundary, cfg Config) (*Tree[A], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if boundary.Arity() == 0 {
		return nil, fmt.Errorf("%w: boundary must have at least one dimension",
			geom.ErrInvalidArgument)
	}
	cfg = cfg.normalized()
	return &Tree[A]{
		cfg:      cfg,
		boundary: boundary,
		root:     newLeaf[A](boundary.Box, 0),
	}, nil
}

// NewFrom creates a persistent tree and bulk-loads items via repeated insert.
func NewFrom[A comparable](boundary geom.Boundary, items []BoxedPayload[A], cfg Config) (*Tree[A], error) {
	tree, err := New[A](boundary, cfg)
	if err != nil {
		return nil, err
	}
	return tree.InsertAll(items)
}

// Config returns the effective tree configuration.
func (t *Tree[A]) Config() Config {
	return t.cfg
}

// Boundary returns the current root boundary. It never shrinks; inserts
// outside the working box grow it.
func (t *Tree[A]) Boundary() geom.Boundary {
	return t.boundary
}

// Len returns the number of stored items, counting fragments individually.
func (t *Tree[A]) Len() int {
	return countItems[A](t.root)
}

// IsEmpty reports whether the tree stores no items.
func (t *Tree[A]) IsEmpty() bool {
	return countItems[A](t.root) == 0
}

// ForEachItem walks stored items (fragments included) in child order.
// Iteration stops early if the callback returns false.
func (t *Tree[A]) ForEachItem(fn func(item BoxedPayload[A]) bool) {
	if fn == nil {
		return
	}
	forEachItem(t.root, fn)
}

func (t *Tree[A]) clone() *Tree[A] {
	cloned := *t
	return &cloned
}

func (t *Tree[A]) checkArity(b geom.Box) error {
	if b.Arity() != t.boundary.Arity() {
		return fmt.Errorf("%w: box arity %d does not match tree arity %d",
			geom.ErrInvalidArgument, b.Arity(), t.boundary.Arity())
	}
	return nil
}

// Insert adds one item and returns the updated tree.
//
// If the item's box is not contained in the working box, the root boundary
// grows first and the whole tree is rebuilt over the new partition.
func (t *Tree[A]) Insert(item BoxedPayload[A]) (*Tree[A], error) {
	if err := t.checkArity(item.Box); err != nil {
		return nil, err
	}
	if !t.boundary.Contains(item.Box) {
		return t.growFor(item), nil
	}
	cloned := t.clone()
	cloned.root = insertNode(t.cfg, t.boundary.Capacity, t.root, item)
	return cloned, nil
}

// InsertAll adds items one by one and returns the updated tree.
func (t *Tree[A]) InsertAll(items []BoxedPayload[A]) (*Tree[A], error) {
	tree := t
	for _, item := range items {
		var err error
		if tree, err = tree.Insert(item); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Remove drops every stored item matching the given box/payload pair,
// fragments included, and returns the updated tree. Removing an absent item
// is a no-op.
func (t *Tree[A]) Remove(item BoxedPayload[A]) (*Tree[A], error) {
	if err := t.checkArity(item.Box); err != nil {
		return nil, err
	}
	updated := removeNode(t.root, item)
	if updated == t.root {
		return t, nil
	}
	cloned := t.clone()
	cloned.root = updated
	return cloned, nil
}

// Query returns all stored items whose box intersects rng.
//
// The result may contain several fragments of one logical item and items
// merely touching the range boundary; callers needing exactly-once,
// un-fragmented results pass it through Deduplicate.
func (t *Tree[A]) Query(rng geom.Box) ([]BoxedPayload[A], error) {
	if err := t.checkArity(rng); err != nil {
		return nil, err
	}
	return queryNode[A](t.root, rng, nil), nil
}

// Clear returns a tree with the same branch structure and no items.
func (t *Tree[A]) Clear() *Tree[A] {
	cloned := t.clone()
	cloned.root = clearNode[A](t.root)
	return cloned
}

// Copy returns the receiver: persistent trees are immutable and safe to
// alias.
func (t *Tree[A]) Copy() *Tree[A] {
	return t
}

// growFor expands the root boundary to cover the item's box and rebuilds the
// tree: existing contents are healed and deduplicated, re-inserted over the
// fresh partition, and the new item inserted last.
func (t *Tree[A]) growFor(item BoxedPayload[A]) *Tree[A] {
	kept := Deduplicate[A](collectItems[A](t.root))
	boundary := t.boundary.Grow(item.Box)
	tracer().Debugf("boxtree root grows to %v for item %v", boundary.Box, item.Box)
	fresh := &Tree[A]{
		cfg:      t.cfg,
		boundary: boundary,
		root:     newLeaf[A](boundary.Box, 0),
	}
	for _, existing := range kept {
		fresh.root = insertNode[A](fresh.cfg, boundary.Capacity, fresh.root, existing)
	}
	fresh.root = insertNode(fresh.cfg, boundary.Capacity, fresh.root, item)
	return fresh
}

// insertNode adds item to the subtree n and returns the updated subtree;
// n is never modified. Full leaves are promoted to branches by redistributing
// their items over a fresh 2^N partition.
func insertNode[A comparable](cfg Config, capacity geom.Capacity, n treeNode[A], item BoxedPayload[A]) treeNode[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		if leafAccepts(cfg, leaf) {
			items := make([]BoxedPayload[A], 0, len(leaf.items)+1)
			items = append(items, item)
			items = append(items, leaf.items...)
			return &leafNode[A]{bounds: leaf.bounds, depth: leaf.depth, items: items}
		}
		var promoted treeNode[A] = subdivide[A](capacity, leaf.bounds, leaf.depth)
		for _, existing := range leaf.items {
			promoted = insertNode(cfg, capacity, promoted, existing)
		}
		return insertNode(cfg, capacity, promoted, item)
	}
	branch := n.(*branchNode[A])
	return insertIntoBranch(cfg, capacity, branch, item)
}

// insertIntoBranch routes an item into all children it intersects. An item
// spanning more than one child is fragmented, recording the original box; an
// item intersecting a single child is forwarded unmodified.
func insertIntoBranch[A comparable](cfg Config, capacity geom.Capacity, branch *branchNode[A], item BoxedPayload[A]) *branchNode[A] {
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
	children := append([]treeNode[A](nil), branch.children...)
	if len(hits) == 1 {
		slot := hits[0].slot
		children[slot] = insertNode(cfg, capacity, children[slot], item)
	} else {
		for _, h := range hits {
			children[h.slot] = insertNode(cfg, capacity, children[h.slot], item.fragment(h.sect))
		}
	}
	return &branchNode[A]{bounds: branch.bounds, depth: branch.depth, children: children}
}

// removeNode drops items matching target from the subtree n, clipping the
// target box to child boxes on the way down so that fragment boxes are
// matched exactly. Untouched subtrees are returned as is and stay shared.
func removeNode[A comparable](n treeNode[A], target BoxedPayload[A]) treeNode[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		changed := false
		kept := make([]BoxedPayload[A], 0, len(leaf.items))
		for _, item := range leaf.items {
			if item.matches(target) {
				changed = true
				continue
			}
			kept = append(kept, item)
		}
		if !changed {
			return n
		}
		return &leafNode[A]{bounds: leaf.bounds, depth: leaf.depth, items: kept}
	}
	branch := n.(*branchNode[A])
	var children []treeNode[A]
	for i, child := range branch.children {
		sect, ok := target.Box.Intersection(child.box())
		if !ok {
			continue
		}
		updated := removeNode(child, BoxedPayload[A]{Box: sect, Payload: target.Payload})
		if updated == child {
			continue
		}
		if children == nil {
			children = append([]treeNode[A](nil), branch.children...)
		}
		children[i] = updated
	}
	if children == nil {
		return n
	}
	return &branchNode[A]{bounds: branch.bounds, depth: branch.depth, children: children}
}

// clearNode rebuilds the subtree shape with empty leaves. Branch structure is
// preserved; the tree never un-splits.
func clearNode[A comparable](n treeNode[A]) treeNode[A] {
	if leaf, ok := n.(*leafNode[A]); ok {
		if len(leaf.items) == 0 {
			return n
		}
		return newLeaf[A](leaf.bounds, leaf.depth)
	}
	branch := n.(*branchNode[A])
	children := make([]treeNode[A], len(branch.children))
	for i, child := range branch.children {
		children[i] = clearNode[A](child)
	}
	return &branchNode[A]{bounds: branch.bounds, depth: branch.depth, children: children}
}
