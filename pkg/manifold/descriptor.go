package manifold

import (
	geor3 "github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ManifoldDescriptor is the wire-level shape of a manifold at the boundary
// with an external surface fitter: a point and normal using golang/geo's
// plain r3.Vector rather than this module's gonum r3.Vec, since a fitter
// living outside this module has no reason to depend on gonum.
type ManifoldDescriptor struct {
	Kind   Kind
	Point  geor3.Vector
	Normal geor3.Vector
	Radius float64
}

// Describe converts a fitted manifold to its external descriptor form.
func Describe(m Manifold) ManifoldDescriptor {
	return ManifoldDescriptor{
		Kind:   m.Kind,
		Point:  geor3.Vector{X: m.P.X, Y: m.P.Y, Z: m.P.Z},
		Normal: geor3.Vector{X: m.N.X, Y: m.N.Y, Z: m.N.Z},
		Radius: m.Radius(),
	}
}

// FromDescriptor builds a Manifold from a fitter-supplied descriptor,
// carrying no point cloud (the fitter is expected to supply one
// separately, via pointcloud.New, if the caller needs one attached).
func FromDescriptor(d ManifoldDescriptor) Manifold {
	p := r3.Vec{X: d.Point.X, Y: d.Point.Y, Z: d.Point.Z}
	n := r3.Vec{X: d.Normal.X, Y: d.Normal.Y, Z: d.Normal.Z}
	switch d.Kind {
	case KindCylinder:
		return Cylinder(p, n, d.Radius, nil)
	case KindSphere:
		return Sphere(p, d.Radius, nil)
	default:
		return Plane(p, n, nil)
	}
}
