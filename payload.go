package boxtree

import (
	"fmt"

	"github.com/npillmayer/boxtree/geom"
)

// BoxedPayload is an application value together with the box it occupies.
//
// When an inserted box spans more than one subtree boundary, the tree stores
// it as several fragments, one per affected child. Every fragment records the
// original, pre-split box in Parent, so the original item can be
// reconstructed on the read side; fragments of the same logical item share an
// equal (Payload, Parent) pair. Items are never modified after creation.
//
// The payload type is constrained to comparable because removal and
// deduplication compare payloads for equality.
type BoxedPayload[A comparable] struct {
	Box     geom.Box
	Payload A
	// Parent is the pre-split box of a fragment; the zero box for items which
	// were never fragmented.
	Parent geom.Box
}

// Boxed creates a fragment-free item from a box and a payload.
func Boxed[A comparable](box geom.Box, payload A) BoxedPayload[A] {
	return BoxedPayload[A]{Box: box, Payload: payload}
}

// Fragmented reports whether the item is a fragment of a split box.
func (p BoxedPayload[A]) Fragmented() bool {
	return !p.Parent.IsVoid()
}

// Heal reconstructs the originally inserted item from a fragment. Healing is
// a pure read-side reconstruction; non-fragments are returned unchanged.
func (p BoxedPayload[A]) Heal() BoxedPayload[A] {
	if !p.Fragmented() {
		return p
	}
	return BoxedPayload[A]{Box: p.Parent, Payload: p.Payload}
}

// fragment derives a fragment of p covering sect. The recorded parent is p's
// own parent if p already is a fragment, so the original box survives any
// number of recursive splits.
func (p BoxedPayload[A]) fragment(sect geom.Box) BoxedPayload[A] {
	parent := p.Parent
	if parent.IsVoid() {
		parent = p.Box
	}
	return BoxedPayload[A]{Box: sect, Payload: p.Payload, Parent: parent}
}

// matches reports box/payload equality, ignoring the parent box. Removal uses
// this so that a caller holding only the healed form drops all fragments.
func (p BoxedPayload[A]) matches(other BoxedPayload[A]) bool {
	return p.Payload == other.Payload && p.Box.Equal(other.Box)
}

func (p BoxedPayload[A]) String() string {
	if p.Fragmented() {
		return fmt.Sprintf("%s->%v (of %s)", p.Box, p.Payload, p.Parent)
	}
	return fmt.Sprintf("%s->%v", p.Box, p.Payload)
}

// itemKey is a comparable stand-in for a (box, payload) pair. Box renders
// coordinates with shortest round-trip float formatting, so distinct boxes
// have distinct keys.
type itemKey[A comparable] struct {
	box     string
	payload A
}

// Deduplicate collapses fragment multiplicity in a query result.
//
// Items which were never fragmented pass through unchanged. Fragments are
// healed into their original form and deduplicated as a set, so every logical
// item appears exactly once no matter how many subtree boundaries split it.
// The operation is idempotent.
func Deduplicate[A comparable](items []BoxedPayload[A]) []BoxedPayload[A] {
	out := make([]BoxedPayload[A], 0, len(items))
	var seen map[itemKey[A]]struct{}
	for _, item := range items {
		if !item.Fragmented() {
			out = append(out, item)
			continue
		}
		healed := item.Heal()
		key := itemKey[A]{box: healed.Box.String(), payload: healed.Payload}
		if seen == nil {
			seen = make(map[itemKey[A]]struct{})
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, healed)
	}
	return out
}
