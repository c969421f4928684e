// Package pss is the Primitive-Set Search: an evolutionary search whose
// creatures are ordered sets of volumetric primitives (boxes, capped
// cylinders, spheres), scored by how much of each primitive's face area
// is witnessed by the source point cloud and how well the set's combined
// signed-distance field matches the sampled surface.
package pss

import (
	"hash/fnv"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
)

// Set is an ordered sequence of primitives with no further structural
// invariants; interpreted as a CSG, it is the union of non-cutout members
// minus the union of cutout members.
type Set []manifold.Primitive

// Hash implements evo.Hashable so the engine can memoise fitness by
// creature content rather than re-scoring unchanged creatures.
func (s Set) Hash() uint64 {
	h := fnv.New64a()
	for _, p := range s {
		var buf [8]byte
		v := uint64(manifold.Hash(p, 1e-6))
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Clone returns a shallow copy of s; primitives are immutable so sharing
// their values across the clone is safe.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Tree builds the CSG node s denotes: the union of its non-cutout
// members minus the union of its cutout members, per s's own doc
// comment. An all-cutout or empty set has no positive volume and comes
// back as csgtree.Noop, the engine's empty-result placeholder.
func (s Set) Tree() *csgtree.Node {
	var pos, neg *csgtree.Node
	for _, p := range s {
		if !p.Valid() {
			continue
		}
		leaf := csgtree.Geometry(p)
		if p.Cutout {
			neg = unionInto(neg, leaf)
		} else {
			pos = unionInto(pos, leaf)
		}
	}
	if pos == nil {
		return csgtree.Noop(neg)
	}
	if neg == nil {
		return pos
	}
	return csgtree.Difference(pos, neg)
}

func unionInto(acc, leaf *csgtree.Node) *csgtree.Node {
	if acc == nil {
		return leaf
	}
	return csgtree.Union(acc, leaf)
}
