package manifold

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// DefaultAngleEpsilon is the default angular tolerance (radians) used to
// check parallel/perpendicular plane relationships during construction.
const DefaultAngleEpsilon = 0.05 // ~2.9 degrees

// CreateBox builds a Box primitive from exactly six plane manifolds,
// arranged as three parallel pairs at indices (0,1),(2,3),(4,5). Normals
// are flipped as needed so each ends up outward-facing (away from the
// box's centre) — the orientation the polytope's signed-distance formula
// requires. Returns (None, false) — a DegeneratePrimitive — if any pair
// fails the parallel/perpendicular/separation checks or if the resulting
// polytope is empty.
func CreateBox(planes [6]Manifold, angleEps, minParallelDist float64) (Primitive, bool) {
	for _, p := range planes {
		if p.Kind != KindPlane {
			return None, false
		}
	}

	var faces [6]sdfkernel.HalfSpace
	var oriented [6]Manifold
	pairAxes := make([]r3.Vec, 0, 3)

	for pair := 0; pair < 3; pair++ {
		i, j := 2*pair, 2*pair+1
		a, b := planes[i], planes[j]

		cosAngle := math.Abs(r3.Dot(a.N, b.N))
		if cosAngle < math.Cos(angleEps) {
			return None, false // not parallel
		}

		centre := r3.Scale(0.5, r3.Add(a.P, b.P))
		outA := outward(a.N, a.P, centre)
		outB := outward(b.N, b.P, centre)

		dist := math.Abs(r3.Dot(outA, r3.Sub(a.P, b.P)))
		if dist < minParallelDist {
			return None, false
		}

		faces[i] = sdfkernel.HalfSpace{P: a.P, N: outA}
		faces[j] = sdfkernel.HalfSpace{P: b.P, N: outB}
		oriented[i] = Manifold{Kind: KindPlane, P: a.P, N: outA, PC: a.PC}
		oriented[j] = Manifold{Kind: KindPlane, P: b.P, N: outB, PC: b.PC}
		pairAxes = append(pairAxes, outA)
	}

	for a := 0; a < len(pairAxes); a++ {
		for b := a + 1; b < len(pairAxes); b++ {
			cosAngle := math.Abs(r3.Dot(pairAxes[a], pairAxes[b]))
			if cosAngle > math.Sin(angleEps) { // cos should be ~0 for perpendicular
				return None, false
			}
		}
	}

	impl, ok := sdfkernel.NewPolytope(faces[:])
	if !ok {
		return None, false
	}

	return Primitive{
		ID:       NewPrimitiveID(),
		Kind:     KindBox,
		Implicit: impl,
		MS:       oriented[:],
	}, true
}

// outward flips n (if needed) so that it points away from centre,
// starting from the plane point p.
func outward(n, p, centre r3.Vec) r3.Vec {
	if r3.Dot(n, r3.Sub(p, centre)) < 0 {
		return r3.Scale(-1, n)
	}
	return n
}

// CreateCylinder builds a Cylinder primitive from a cylindrical manifold
// and 0, 1 or 2 cap planes, per the height-estimation rules in the
// manifold model: zero caps estimates height from the cylinder's own
// point cloud, one cap synthesises the opposite cap at the far axis
// extremum, and two caps must be parallel and their axis separation
// becomes the height.
func CreateCylinder(cyl Manifold, caps []Manifold, angleEps float64) (Primitive, bool) {
	if cyl.Kind != KindCylinder {
		return None, false
	}
	for _, c := range caps {
		if c.Kind != KindPlane {
			return None, false
		}
	}

	var centre r3.Vec
	var height float64
	var ms []Manifold
	ms = append(ms, cyl)

	switch len(caps) {
	case 0:
		if cyl.PC == nil || cyl.PC.Len() == 0 {
			return None, false
		}
		lo, hi := cyl.PC.ProjectAxisExtent(cyl.P, cyl.N)
		if hi <= lo {
			return None, false
		}
		height = hi - lo
		centre = r3.Add(cyl.P, r3.Scale((lo+hi)/2, cyl.N))

	case 1:
		cap := caps[0]
		if math.Abs(r3.Dot(cap.N, cyl.N)) < math.Cos(angleEps) {
			return None, false // cap not perpendicular to axis
		}
		capT := r3.Dot(r3.Sub(cap.P, cyl.P), cyl.N)
		if cyl.PC == nil || cyl.PC.Len() == 0 {
			return None, false
		}
		lo, hi := cyl.PC.ProjectAxisExtent(cyl.P, cyl.N)
		var farT float64
		if math.Abs(capT-lo) > math.Abs(capT-hi) {
			farT = lo
		} else {
			farT = hi
		}
		// The synthetic cap mirrors the known cap's orientation on the far side.
		farPoint := r3.Add(cyl.P, r3.Scale(farT, cyl.N))
		synthetic := Plane(farPoint, r3.Scale(-1, cap.N), nil)
		height = math.Abs(farT - capT)
		centre = r3.Scale(0.5, r3.Add(cap.P, farPoint))
		ms = append(ms, cap, synthetic)

	case 2:
		a, b := caps[0], caps[1]
		if math.Abs(r3.Dot(a.N, b.N)) < math.Cos(angleEps) {
			return None, false // caps not parallel
		}
		tA := r3.Dot(r3.Sub(a.P, cyl.P), cyl.N)
		tB := r3.Dot(r3.Sub(b.P, cyl.P), cyl.N)
		height = math.Abs(tB - tA)
		centre = r3.Add(cyl.P, r3.Scale((tA+tB)/2, cyl.N))
		ms = append(ms, a, b)

	default:
		return None, false
	}

	if height <= 0 {
		return None, false
	}

	impl, ok := sdfkernel.NewCylinderCapped(centre, cyl.N, cyl.Radius(), height)
	if !ok {
		return None, false
	}

	return Primitive{
		ID:       NewPrimitiveID(),
		Kind:     KindCylinderPrim,
		Implicit: impl,
		MS:       ms,
	}, true
}

// CreateSphere builds a Sphere primitive from a spherical manifold.
func CreateSphere(s Manifold) (Primitive, bool) {
	if s.Kind != KindSphere {
		return None, false
	}
	impl, ok := sdfkernel.NewSphere(s.P, s.Radius())
	if !ok {
		return None, false
	}
	return Primitive{
		ID:       NewPrimitiveID(),
		Kind:     KindSpherePrim,
		Implicit: impl,
		MS:       []Manifold{s},
	}, true
}
