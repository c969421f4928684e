package sdfkernel

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"gonum.org/v1/gonum/spatial/r3"
)

// HalfSpace is one face of a polytope: the region {x : n·(x-p) <= 0}.
type HalfSpace struct {
	P r3.Vec
	N r3.Vec // outward unit normal
}

// Polytope is the implicit function for the intersection of half-spaces
// described in HalfSpace. It is used specifically for the 6-plane boxes
// built from manifold planes; no sdfx analog exists for a general
// half-space intersection, so this is evaluated directly.
type Polytope struct {
	faces []HalfSpace
}

// NewPolytope builds a Polytope from its defining half-spaces. It returns
// the shared Empty() sentinel and ok=false if the intersection is
// infeasible (degenerate), detected by the LP feasibility check described
// in the geometry kernel design: minimise 0 subject to n_i·x <= n_i·p_i.
func NewPolytope(faces []HalfSpace) (ImplicitFn, bool) {
	if len(faces) == 0 {
		return Empty(), false
	}
	if !feasible(faces) {
		return Empty(), false
	}
	return &Polytope{faces: append([]HalfSpace(nil), faces...)}, true
}

// feasible runs a zero-objective LP to test whether the half-space
// intersection n_i·x <= n_i·p_i (i.e. A x <= b) has any solution.
func feasible(faces []HalfSpace) bool {
	n := len(faces)
	// lp.Simplex solves min c^T x s.t. A x = b, x >= 0 in standard form.
	// We convert each inequality n·x <= n·p into an equality with a
	// non-negative slack: n·x + s_i = n·p, s_i >= 0, and free sign on x
	// is handled by splitting x = x+ - x- (x+, x- >= 0).
	// Variables: [x+ (3), x- (3), s (n)].
	const dims = 3
	numVars := 2*dims + n
	A := make([]float64, n*numVars)
	b := make([]float64, n)
	for i, f := range faces {
		row := i * numVars
		normal := [3]float64{f.N.X, f.N.Y, f.N.Z}
		for d := 0; d < dims; d++ {
			A[row+d] = normal[d]
			A[row+dims+d] = -normal[d]
		}
		A[row+2*dims+i] = 1
		b[i] = r3.Dot(f.N, f.P)
	}
	c := make([]float64, numVars) // zero objective: feasibility only

	_, _, err := lp.Simplex(c, mat.NewDense(n, numVars, A), b, 1e-10, nil)
	return err == nil
}

// SignedDistance returns max_i n_i·(x-p_i), the standard CSG formula for
// an intersection of half-spaces.
func (poly *Polytope) SignedDistance(p r3.Vec) float64 {
	d, _ := poly.activeFace(p)
	return d
}

// SignedDistanceAndGradient returns the distance and the outward normal
// of whichever half-space is most active (closest to being violated) at p.
func (poly *Polytope) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	d, idx := poly.activeFace(p)
	return d, poly.faces[idx].N
}

func (poly *Polytope) activeFace(p r3.Vec) (float64, int) {
	best := math.Inf(-1)
	bestIdx := 0
	for i, f := range poly.faces {
		d := r3.Dot(f.N, r3.Sub(p, f.P))
		if d > best {
			best = d
			bestIdx = i
		}
	}
	return best, bestIdx
}

// AABB returns a bounding box by projecting the faces; since a polytope
// isn't guaranteed bounded by its half-spaces alone in general, this
// assumes (as boxes always are in this kernel) that the six planes form a
// closed region and derives the box from the vertices computed by Mesh.
func (poly *Polytope) AABB() (min, max r3.Vec) {
	verts, ok := cubeClipVertices(poly.faces)
	if !ok || len(verts) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = verts[0], verts[0]
	for _, v := range verts[1:] {
		min = r3.Vec{X: minf(min.X, v.X), Y: minf(min.Y, v.Y), Z: minf(min.Z, v.Z)}
		max = r3.Vec{X: maxf(max.X, v.X), Y: maxf(max.Y, v.Y), Z: maxf(max.Z, v.Z)}
	}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
