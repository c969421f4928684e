package sdfkernel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// CylinderCapped is the implicit function for a capped cylinder: an
// infinite axis through point, direction axis (unit), intersected with
// two caps height apart along the axis, each height/2 from point. It is built on sdfx's
// Cylinder3D (axis-aligned along Z through the origin) reoriented by a
// rotation that carries Z onto axis; a cylinder has no roll degree of
// freedom about its own axis so that rotation is uniquely determined up
// to the degenerate axis-antiparallel case, which RotateY/RotateZ handle
// without a singularity.
type CylinderCapped struct {
	point  r3.Vec
	axis   r3.Vec // unit
	radius float64
	height float64
	sdf3   sdf.SDF3
}

// NewCylinderCapped builds a capped-cylinder implicit function.
// Returns false (DegeneratePrimitive) for non-positive radius or height.
func NewCylinderCapped(point, axis r3.Vec, radius, height float64) (*CylinderCapped, bool) {
	if radius <= 0 || height <= 0 {
		return nil, false
	}
	l := r3.Norm(axis)
	if l < 1e-12 {
		return nil, false
	}
	axis = r3.Scale(1/l, axis)

	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, false
	}
	m := sdf.Translate3d(v3.Vec{X: point.X, Y: point.Y, Z: point.Z}).Mul(axisAlignZ(axis))
	return &CylinderCapped{point: point, axis: axis, radius: radius, height: height, sdf3: sdf.Transform3D(s, m)}, true
}

// axisAlignZ returns the rotation matrix that carries the canonical Z
// axis onto the given unit vector, expressed as RotateZ(phi)*RotateY(theta)
// where theta is the polar angle from Z and phi the azimuth in the XY
// plane — the unique choice (up to cylinder roll, which is unobservable)
// that avoids a dedicated arbitrary-axis rotation routine.
func axisAlignZ(axis r3.Vec) sdf.M44 {
	theta := math.Acos(clamp(axis.Z, -1, 1))
	phi := math.Atan2(axis.Y, axis.X)
	return sdf.RotateZ(phi).Mul(sdf.RotateY(theta))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SignedDistance evaluates the capped-cylinder signed distance.
func (c *CylinderCapped) SignedDistance(p r3.Vec) float64 {
	return c.sdf3.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// SignedDistanceAndGradient evaluates the signed distance and its gradient
// by central finite difference, per spec's fallback for the capped
// cylinder's branchy exterior/interior formula.
func (c *CylinderCapped) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	const h = 1e-4
	d := c.SignedDistance(p)
	grad := centralDifferenceGradient(c.SignedDistance, p, h)
	return d, grad
}

// AABB returns the cylinder's axis-aligned bounding box.
func (c *CylinderCapped) AABB() (min, max r3.Vec) {
	bb := c.sdf3.BoundingBox()
	return r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}, r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
}

// Radius returns the cylinder's radius.
func (c *CylinderCapped) Radius() float64 { return c.radius }

// Height returns the along-axis height between the two caps.
func (c *CylinderCapped) Height() float64 { return c.height }

// Axis returns the cylinder's unit axis direction.
func (c *CylinderCapped) Axis() r3.Vec { return c.axis }

// Point returns a point on the cylinder's axis (its centre).
func (c *CylinderCapped) Point() r3.Vec { return c.point }

// centralDifferenceGradient numerically differentiates f at p with step h.
func centralDifferenceGradient(f func(r3.Vec) float64, p r3.Vec, h float64) r3.Vec {
	dx := f(r3.Add(p, r3.Vec{X: h})) - f(r3.Add(p, r3.Vec{X: -h}))
	dy := f(r3.Add(p, r3.Vec{Y: h})) - f(r3.Add(p, r3.Vec{Y: -h}))
	dz := f(r3.Add(p, r3.Vec{Z: h})) - f(r3.Add(p, r3.Vec{Z: -h}))
	g := r3.Vec{X: dx, Y: dy, Z: dz}
	g = r3.Scale(1/(2*h), g)
	if l := r3.Norm(g); l > 1e-12 {
		g = r3.Scale(1/l, g)
	}
	return g
}
