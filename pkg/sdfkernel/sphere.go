package sdfkernel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is the implicit function for a sphere centred at centre with
// radius r. Evaluation delegates to sdfx's Sphere3D, translated into
// place, so the zero level set matches the kernel a production SDF CAD
// pipeline would render.
type Sphere struct {
	centre r3.Vec
	radius float64
	sdf3   sdf.SDF3
}

// NewSphere builds a Sphere implicit function. Returns false if radius is
// not strictly positive (a DegeneratePrimitive per the error model).
func NewSphere(centre r3.Vec, radius float64) (*Sphere, bool) {
	if radius <= 0 {
		return nil, false
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, false
	}
	m := sdf.Translate3d(v3.Vec{X: centre.X, Y: centre.Y, Z: centre.Z})
	return &Sphere{centre: centre, radius: radius, sdf3: sdf.Transform3D(s, m)}, true
}

// SignedDistance returns ‖p-centre‖ - r.
func (s *Sphere) SignedDistance(p r3.Vec) float64 {
	return s.sdf3.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// SignedDistanceAndGradient returns the distance and the outward unit
// gradient, which for a sphere is simply the normalised radial direction.
func (s *Sphere) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	d := s.SignedDistance(p)
	grad := r3.Sub(p, s.centre)
	if l := r3.Norm(grad); l > 1e-12 {
		grad = r3.Scale(1/l, grad)
	} else {
		grad = r3.Vec{X: 0, Y: 0, Z: 1}
	}
	return d, grad
}

// AABB returns the sphere's axis-aligned bounding box.
func (s *Sphere) AABB() (min, max r3.Vec) {
	bb := s.sdf3.BoundingBox()
	return r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}, r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
}

// Radius returns the sphere's radius.
func (s *Sphere) Radius() float64 { return s.radius }

// Centre returns the sphere's centre.
func (s *Sphere) Centre() r3.Vec { return s.centre }
