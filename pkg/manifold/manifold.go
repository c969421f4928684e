// Package manifold is the typed value model for fitted surfaces (plane,
// cylinder, sphere) and the volumetric primitives assembled from them.
// Manifolds are immutable once fitted; primitives are immutable once
// constructed, matching the lifecycle the evolutionary search relies on
// to share leaves cheaply across creatures.
package manifold

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/pointcloud"
)

// Kind distinguishes the three fitted-surface variants.
type Kind int

const (
	KindPlane Kind = iota
	KindCylinder
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Manifold is a fitted surface: a tagged union over Plane, Cylinder and
// Sphere sharing the fields {P, N, R, PC} per the data model. For a
// Plane, N is the outward normal. For a Cylinder, P is a point on the
// axis, N the axis direction, and R.X the radius. For a Sphere, P is the
// centre and R.X the radius.
type Manifold struct {
	Kind Kind
	P    r3.Vec
	N    r3.Vec // unit
	R    [3]float64
	PC   *pointcloud.PointCloud // owned supporting points, nil if synthetic
}

// Plane constructs a plane manifold {x : n·(x-p) = 0} with outward normal n.
func Plane(p, n r3.Vec, pc *pointcloud.PointCloud) Manifold {
	return Manifold{Kind: KindPlane, P: p, N: unit(n), PC: pc}
}

// Cylinder constructs an infinite-axis cylinder manifold.
func Cylinder(p, axis r3.Vec, radius float64, pc *pointcloud.PointCloud) Manifold {
	return Manifold{Kind: KindCylinder, P: p, N: unit(axis), R: [3]float64{radius}, PC: pc}
}

// Sphere constructs a sphere manifold.
func Sphere(centre r3.Vec, radius float64, pc *pointcloud.PointCloud) Manifold {
	return Manifold{Kind: KindSphere, P: centre, R: [3]float64{radius}, PC: pc}
}

// Radius returns r.x, the manifold's sole radius component.
func (m Manifold) Radius() float64 { return m.R[0] }

func unit(v r3.Vec) r3.Vec {
	l := r3.Norm(v)
	if l < 1e-12 {
		return v
	}
	return r3.Scale(1/l, v)
}

// Equal compares two manifolds up to a geometric tolerance on P, with a
// sign-agnostic angular comparison of N, per the data model's equality
// rule. Manifolds of different Kind are never equal.
func Equal(a, b Manifold, eps float64) bool {
	if a.Kind != b.Kind {
		return false
	}
	if r3.Norm(r3.Sub(a.P, b.P)) > eps {
		return false
	}
	switch a.Kind {
	case KindSphere:
		return math.Abs(a.Radius()-b.Radius()) <= eps
	default:
		cos := math.Abs(r3.Dot(a.N, b.N)) // sign-agnostic
		return cos >= 1-eps
	}
}
