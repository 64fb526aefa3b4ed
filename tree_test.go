package boxtree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/boxtree/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func boundary1D(t *testing.T, capLo, capHi, boxLo, boxHi float64) geom.Boundary {
	t.Helper()
	capacity, err := geom.NewCapacity(geom.P(capLo), geom.P(capHi))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bd, err := geom.NewBoundary(capacity, geom.Interval(boxLo, boxHi))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bd
}

func hasItem[A comparable](items []BoxedPayload[A], box geom.Box, payload A) bool {
	for _, item := range items {
		if item.Payload == payload && item.Box.Equal(box) && !item.Fragmented() {
			return true
		}
	}
	return false
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	bd := boundary1D(t, -8, 8, -8, 8)
	_, err := New[string](bd, Config{LeafCapacity: -1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	_, err = New[string](bd, Config{DepthLimit: -3})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewRejectsZeroArityBoundary(t *testing.T) {
	_, err := New[string](geom.Boundary{}, Config{})
	if !errors.Is(err, geom.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNewNormalizesConfig(t *testing.T) {
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := tree.Config()
	if cfg.LeafCapacity != DefaultLeafCapacity || cfg.DepthLimit != DefaultDepthLimit {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
}

// TestInsertFragmentsAcrossSplit replays the canonical 1D scenario: with leaf
// capacity 1 the second insert splits the root at 0, and a box spanning the
// split point is stored as two fragments sharing the original box as parent.
func TestInsertFragmentsAcrossSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err = tree.Insert(Boxed(geom.Interval(3, 5), "one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err = tree.Insert(Boxed(geom.Interval(-1, 3), "two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree fails invariant check: %v", err)
	}
	raw, err := tree.Query(geom.Interval(-1, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fragments := 0
	for _, item := range raw {
		if !item.Fragmented() {
			continue
		}
		fragments++
		if !item.Parent.Equal(geom.Interval(-1, 3)) {
			t.Errorf("fragment %v does not record original box [-1,3]", item)
		}
		if !item.Box.Equal(geom.Interval(-1, 0)) && !item.Box.Equal(geom.Interval(0, 3)) {
			t.Errorf("unexpected fragment box: %v", item)
		}
	}
	if fragments != 2 {
		t.Fatalf("expected 2 fragments of [-1,3], got %d", fragments)
	}
	deduped := Deduplicate(raw)
	if len(deduped) != 2 {
		t.Fatalf("expected 2 deduplicated items, got %d: %v", len(deduped), deduped)
	}
	if !hasItem(deduped, geom.Interval(3, 5), "one") || !hasItem(deduped, geom.Interval(-1, 3), "two") {
		t.Fatalf("deduplicated result misses an item: %v", deduped)
	}
}

// TestInsertQueryRoundTrip checks the general round-trip property over a mix
// of straddling and contained boxes in 2D.
func TestInsertQueryRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	capacity, err := geom.NewCapacity(geom.P(-16, -16), geom.P(16, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bd, err := geom.NewBoundary(capacity, geom.Rect(-16, -16, 16, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err := New[int](bd, Config{LeafCapacity: 2, DepthLimit: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boxes := []geom.Box{
		geom.Rect(-10, -10, -6, -6),
		geom.Rect(-2, -2, 2, 2), // straddles all four quadrants
		geom.Rect(4, 4, 12, 12),
		geom.Rect(-1, 3, 1, 5), // straddles the vertical split
		geom.Rect(7, -3, 9, -1),
		geom.Rect(0, 0, 16, 16),
	}
	for i, box := range boxes {
		if tree, err = tree.Insert(Boxed(box, i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("after insert %d: %v", i, err)
		}
	}
	for i, box := range boxes {
		raw, err := tree.Query(box)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if !hasItem(Deduplicate(raw), box, i) {
			t.Errorf("round trip lost item %d (%v)", i, box)
		}
	}
	whole, err := tree.Query(geom.Rect(-16, -16, 16, 16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deduped := Deduplicate(whole); len(deduped) != len(boxes) {
		t.Fatalf("expected %d deduplicated items, got %d", len(boxes), len(deduped))
	}
}

func TestRemoveDropsAllFragments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, _ = tree.Insert(Boxed(geom.Interval(3, 5), "one"))
	tree, _ = tree.Insert(Boxed(geom.Interval(-1, 3), "two"))
	// The caller only holds the healed form; remove must still catch both
	// fragments.
	tree, err = tree.Remove(Boxed(geom.Interval(-1, 3), "two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := tree.Query(geom.Interval(-8, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deduped := Deduplicate(raw)
	if hasItem(deduped, geom.Interval(-1, 3), "two") {
		t.Fatalf("removed item still present: %v", deduped)
	}
	if !hasItem(deduped, geom.Interval(3, 5), "one") {
		t.Fatalf("remove dropped an unrelated item: %v", deduped)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree fails invariant check: %v", err)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, _ = tree.Insert(Boxed(geom.Interval(1, 2), "a"))
	updated, err := tree.Remove(Boxed(geom.Interval(5, 6), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Len() != 1 {
		t.Fatalf("no-op remove changed item count: %d", updated.Len())
	}
}

// TestGrowthDoubling replays the documented growth scenario: capacity [-4,4],
// box [-8,8]; an insert inside the box does not grow, an insert outside
// doubles the capacity around the recomputed midpoint.
func TestGrowthDoubling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	tree, err := New[string](boundary1D(t, -4, 4, -8, 8), Config{LeafCapacity: 2, DepthLimit: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err = tree.Insert(Boxed(geom.Interval(3, 6), "one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tree.Boundary().Box.Equal(geom.Interval(-8, 8)) {
		t.Fatalf("contained insert grew the boundary to %v", tree.Boundary().Box)
	}
	tree, err = tree.Insert(Boxed(geom.Interval(6, 13), "three"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bd := tree.Boundary()
	// Union of capacity [-4,4] and [6,13] is [-4,13]; midpoint 4.5,
	// half-width 8.5, doubled.
	if bd.Capacity.Min[0] != 4.5-2*8.5 || bd.Capacity.Max[0] != 4.5+2*8.5 {
		t.Fatalf("unexpected grown capacity: %v", bd.Capacity)
	}
	if !bd.Box.Equal(geom.Interval(-8, 13)) {
		t.Fatalf("unexpected grown box: %v", bd.Box)
	}
	raw, err := tree.Query(geom.Interval(-8, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deduped := Deduplicate(raw)
	if !hasItem(deduped, geom.Interval(3, 6), "one") || !hasItem(deduped, geom.Interval(6, 13), "three") {
		t.Fatalf("growth rebuild lost items: %v", deduped)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree fails invariant check after growth: %v", err)
	}
}

func TestGrowthMonotonic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	tree, err := New[int](boundary1D(t, -1, 1, -1, 1), Config{LeafCapacity: 2, DepthLimit: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	previous := tree.Boundary().Box
	for i := 1; i <= 6; i++ {
		lo := float64(i * 3)
		if tree, err = tree.Insert(Boxed(geom.Interval(lo, lo+2), i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		grown := tree.Boundary().Box
		if !grown.Contains(previous) {
			t.Fatalf("boundary box shrank from %v to %v", previous, grown)
		}
		previous = grown
	}
}

// TestPersistence verifies multi-version behavior: mutations never affect
// previously obtained tree handles.
func TestPersistence(t *testing.T) {
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v1, _ := tree.Insert(Boxed(geom.Interval(3, 5), "one"))
	v2, _ := v1.Insert(Boxed(geom.Interval(-1, 3), "two"))
	v3, _ := v2.Remove(Boxed(geom.Interval(3, 5), "one"))

	if got, _ := v1.Query(geom.Interval(-8, 8)); len(Deduplicate(got)) != 1 {
		t.Errorf("v1 changed after later mutations: %v", got)
	}
	if got, _ := v2.Query(geom.Interval(-8, 8)); len(Deduplicate(got)) != 2 {
		t.Errorf("v2 changed after later mutations: %v", got)
	}
	if got, _ := v3.Query(geom.Interval(-8, 8)); len(Deduplicate(got)) != 1 {
		t.Errorf("unexpected v3 content: %v", got)
	}
	if tree.Len() != 0 {
		t.Errorf("original tree picked up items: %d", tree.Len())
	}
}

func TestClearKeepsStructure(t *testing.T) {
	tree, err := New[int](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		tree, _ = tree.Insert(Boxed(geom.Interval(float64(i), float64(i)+0.5), i))
	}
	if _, ok := tree.root.(*branchNode[int]); !ok {
		t.Fatalf("expected a branch root after inserts")
	}
	cleared := tree.Clear()
	if cleared.Len() != 0 {
		t.Fatalf("cleared tree still holds %d items", cleared.Len())
	}
	if _, ok := cleared.root.(*branchNode[int]); !ok {
		t.Fatalf("clear must preserve the branch structure")
	}
	if err := cleared.Check(); err != nil {
		t.Fatalf("cleared tree fails invariant check: %v", err)
	}
	if tree.Len() != 4 {
		t.Fatalf("clear modified the original tree")
	}
}

func TestCopyAliasesPersistentTree(t *testing.T) {
	tree, err := New[int](boundary1D(t, -8, 8, -8, 8), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Copy() != tree {
		t.Fatalf("persistent copy must alias the receiver")
	}
}

// TestDepthLimitStopsSubdivision inserts many near-coincident boxes; leaves
// at the depth limit must absorb them instead of splitting forever.
func TestDepthLimitStopsSubdivision(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "boxtree")
	defer teardown()
	//
	tree, err := New[int](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		if tree, err = tree.Insert(Boxed(geom.Interval(1, 1), i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree fails invariant check: %v", err)
	}
	raw, err := tree.Query(geom.Interval(1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deduped := Deduplicate(raw); len(deduped) != 20 {
		t.Fatalf("expected 20 colliding items, got %d", len(deduped))
	}
}

func TestArityMismatchIsRejected(t *testing.T) {
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err = tree.Insert(Boxed(geom.Rect(0, 0, 1, 1), "2d")); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("insert: expected ErrInvalidArgument, got %v", err)
	}
	if _, err = tree.Query(geom.Rect(0, 0, 1, 1)); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("query: expected ErrInvalidArgument, got %v", err)
	}
	if _, err = tree.Remove(Boxed(geom.Rect(0, 0, 1, 1), "2d")); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("remove: expected ErrInvalidArgument, got %v", err)
	}
}

func TestQueryDisjointRangeIsEmpty(t *testing.T) {
	tree, err := New[string](boundary1D(t, -8, 8, -8, 8), Config{LeafCapacity: 1, DepthLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, _ = tree.Insert(Boxed(geom.Interval(-4, -2), "a"))
	tree, _ = tree.Insert(Boxed(geom.Interval(2, 4), "b"))
	got, err := tree.Query(geom.Interval(5, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestNewFromBulkLoads(t *testing.T) {
	items := make([]BoxedPayload[string], 0, 3)
	for i, name := range []string{"a", "b", "c"} {
		lo := float64(i*2 - 4)
		items = append(items, Boxed(geom.Interval(lo, lo+1), name))
	}
	tree, err := NewFrom(boundary1D(t, -8, 8, -8, 8), items, Config{LeafCapacity: 2, DepthLimit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree fails invariant check: %v", err)
	}
	raw, err := tree.Query(geom.Interval(-8, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deduped := Deduplicate(raw); len(deduped) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(deduped))
	}
}

func ExampleTree() {
	capacity, _ := geom.NewCapacity(geom.P(-8), geom.P(8))
	bd, _ := geom.NewBoundary(capacity, geom.Interval(-8, 8))
	tree, _ := New[string](bd, Config{LeafCapacity: 1, DepthLimit: 4})
	tree, _ = tree.Insert(Boxed(geom.Interval(3, 5), "one"))
	tree, _ = tree.Insert(Boxed(geom.Interval(-1, 3), "two"))
	result, _ := tree.Query(geom.Interval(-1, 8))
	for _, item := range Deduplicate(result) {
		fmt.Println(item)
	}
	// Unordered output:
	// [(3)(5)]->one
	// [(-1)(3)]->two
}
