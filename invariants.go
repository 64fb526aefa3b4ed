package boxtree

import (
	"fmt"

	"github.com/npillmayer/boxtree/geom"
)

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

// Check validates structural tree invariants.
//
// This checker is intentionally strict and meant for tests: a failure
// indicates a tree algorithm bug, not an input error.
func (t *Tree[A]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrCorruptTree)
	}
	return checkNode[A](t.cfg, t.boundary.Capacity, t.root, t.boundary.Box, 0)
}

// Check validates structural tree invariants, see Tree.Check.
func (t *MutableTree[A]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrCorruptTree)
	}
	return checkNode[A](t.cfg, t.boundary.Capacity, t.root, t.boundary.Box, 0)
}

func checkNode[A comparable](cfg Config, capacity geom.Capacity, n treeNode[A], wantBox geom.Box, wantDepth int) error {
	if n == nil {
		return fmt.Errorf("%w: nil node at depth %d", ErrCorruptTree, wantDepth)
	}
	if !n.box().Equal(wantBox) {
		return fmt.Errorf("%w: node box %v, expected %v", ErrCorruptTree, n.box(), wantBox)
	}
	if wantDepth > cfg.DepthLimit {
		return fmt.Errorf("%w: node at depth %d exceeds depth limit %d", ErrCorruptTree,
			wantDepth, cfg.DepthLimit)
	}
	if leaf, ok := n.(*leafNode[A]); ok {
		if leaf.depth != wantDepth {
			return fmt.Errorf("%w: leaf depth %d, expected %d", ErrCorruptTree, leaf.depth, wantDepth)
		}
		if len(leaf.items) > cfg.LeafCapacity && leaf.depth != cfg.DepthLimit {
			return fmt.Errorf("%w: leaf at depth %d holds %d items, capacity %d", ErrCorruptTree,
				leaf.depth, len(leaf.items), cfg.LeafCapacity)
		}
		for _, item := range leaf.items {
			if !leaf.bounds.Contains(item.Box) {
				return fmt.Errorf("%w: item %v outside leaf box %v", ErrCorruptTree, item, leaf.bounds)
			}
		}
		return nil
	}
	branch := n.(*branchNode[A])
	if branch.depth != wantDepth {
		return fmt.Errorf("%w: branch depth %d, expected %d", ErrCorruptTree, branch.depth, wantDepth)
	}
	parts := branch.bounds.BinarySplit(capacity)
	if len(branch.children) != len(parts) {
		return fmt.Errorf("%w: branch has %d children, expected %d", ErrCorruptTree,
			len(branch.children), len(parts))
	}
	for i, child := range branch.children {
		if err := checkNode[A](cfg, capacity, child, parts[i], wantDepth+1); err != nil {
			return err
		}
	}
	return nil
}
