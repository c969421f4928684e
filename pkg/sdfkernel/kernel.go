// Package sdfkernel implements the signed-distance geometry kernel: the
// implicit-function handles for spheres, capped cylinders and polytopes,
// their gradients, and the boolean combinators (union/intersection/
// difference/complement) that the CSG tree evaluates through.
//
// Sphere and capped-cylinder evaluation delegate to github.com/deadsy/sdfx
// so the core's notion of "signed distance" matches a production SDF CAD
// kernel; polytopes (boxes) have no sdfx analog and are evaluated directly
// from their half-space representation.
package sdfkernel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ImplicitFn is the polymorphic handle every primitive and every CSG
// internal node exposes. It is the capability set described in the
// manifold/primitive model: evaluate a signed distance, evaluate a
// distance+gradient pair, and report a conservative bounding box.
type ImplicitFn interface {
	SignedDistance(p r3.Vec) float64
	SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec)
	AABB() (min, max r3.Vec)
}

// Empty is the sentinel ImplicitFn for a degenerate (infeasible) polytope.
// It reports +Inf everywhere, so it never wins an argmin (union) comparison
// and always wins an argmax (intersection) one, and IsEmpty lets callers
// detect it explicitly.
type emptyFn struct{}

func (emptyFn) SignedDistance(r3.Vec) float64 { return math.Inf(1) }
func (emptyFn) SignedDistanceAndGradient(r3.Vec) (float64, r3.Vec) {
	return math.Inf(1), r3.Vec{}
}
func (emptyFn) AABB() (r3.Vec, r3.Vec) { return r3.Vec{}, r3.Vec{} }

// Empty returns the shared empty-polytope sentinel.
func Empty() ImplicitFn { return emptyFn{} }

// IsEmpty reports whether fn is the empty sentinel.
func IsEmpty(fn ImplicitFn) bool {
	_, ok := fn.(emptyFn)
	return ok
}
