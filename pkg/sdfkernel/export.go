package sdfkernel

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// asSDF3 adapts an ImplicitFn to sdfx's sdf.SDF3, so a boolean-combined
// tree (which has no sdfx analog once a Polytope enters the mix) can still
// go through sdfx's external mesher.
type asSDF3 struct {
	fn ImplicitFn
}

// AsSDF3 wraps fn for marching-cubes meshing via sdfx's render package.
func AsSDF3(fn ImplicitFn) sdf.SDF3 {
	return asSDF3{fn: fn}
}

func (s asSDF3) Evaluate(p v3.Vec) float64 {
	return s.fn.SignedDistance(r3Vec(p))
}

func (s asSDF3) BoundingBox() sdf.Box3 {
	min, max := s.fn.AABB()
	return sdf.Box3{Min: v3Vec(min), Max: v3Vec(max)}
}

func r3Vec(p v3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func v3Vec(p r3.Vec) v3.Vec { return v3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// MeshCellsDefault is the marching-cubes grid resolution RenderTriangles
// uses when given a non-positive cell count (the driver passes
// SamplingGridSize*1000, so a non-positive SamplingGridSize).
const MeshCellsDefault = 200

// RenderTriangles tessellates fn with sdfx's uniform marching cubes
// renderer at the given cell count, matching the teacher's
// NewMarchingCubesUniform/ToTriangles external-mesher call.
func RenderTriangles(fn ImplicitFn, cells int) []*sdf.Triangle3 {
	if cells <= 0 {
		cells = MeshCellsDefault
	}
	renderer := render.NewMarchingCubesUniform(cells)
	return render.ToTriangles(AsSDF3(fn), renderer)
}
