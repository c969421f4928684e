package manifold

import (
	"fmt"
	"hash/fnv"

	"gonum.org/v1/gonum/spatial/r3"
)

// StructuralHash is a content-derived key for a primitive, used by the
// ranker to memoise per-primitive area scores across creatures that share
// equivalent geometry. Two primitives with StructuralHash equality are not
// guaranteed equal (it's a hash, not an ID) but in practice collisions
// across a single run are negligible at the tolerance used for rounding.
type StructuralHash uint64

// Hash computes p's structural hash from its kind, cutout flag and the
// rounded coordinates of its supporting manifolds. Rounding to roundTo
// (e.g. 1e-6) lets primitives that differ only by floating-point noise
// from repeated fitting collapse to the same key.
func Hash(p Primitive, roundTo float64) StructuralHash {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%t|", p.Kind, p.Cutout)
	for _, m := range p.MS {
		fmt.Fprintf(h, "%d,%s,%s,%s|",
			m.Kind,
			roundVec(m.P, roundTo),
			roundVec(m.N, roundTo),
			roundFloat(m.Radius(), roundTo),
		)
	}
	return StructuralHash(h.Sum64())
}

func roundVec(v r3.Vec, to float64) string {
	return fmt.Sprintf("(%s,%s,%s)", roundFloat(v.X, to), roundFloat(v.Y, to), roundFloat(v.Z, to))
}

func roundFloat(v, to float64) string {
	if to <= 0 {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%g", roundf(v/to)*to)
}

func roundf(v float64) float64 {
	if v < 0 {
		return -roundf(-v)
	}
	return float64(int64(v + 0.5))
}
