package manifold

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestHashStableUnderNoise(t *testing.T) {
	a, _ := CreateSphere(Sphere(r3.Vec{X: 1, Y: 2, Z: 3}, 4, nil))
	b, _ := CreateSphere(Sphere(r3.Vec{X: 1 + 1e-9, Y: 2, Z: 3}, 4, nil))

	if Hash(a, 1e-6) != Hash(b, 1e-6) {
		t.Error("Hash should collapse sub-tolerance floating point noise")
	}
}

func TestHashDiffersAcrossKind(t *testing.T) {
	sphere, _ := CreateSphere(Sphere(r3.Vec{}, 1, nil))
	cyl, _ := CreateCylinder(Cylinder(r3.Vec{}, r3.Vec{Z: 1}, 1, nil), []Manifold{
		Plane(r3.Vec{Z: -1}, r3.Vec{Z: -1}, nil),
		Plane(r3.Vec{Z: 1}, r3.Vec{Z: 1}, nil),
	}, DefaultAngleEpsilon)

	if Hash(sphere, 1e-6) == Hash(cyl, 1e-6) {
		t.Error("Hash should differ between a sphere and a cylinder")
	}
}

func TestHashDiffersOnCutout(t *testing.T) {
	a, _ := CreateSphere(Sphere(r3.Vec{}, 1, nil))
	b := a.WithCutout(true)

	if Hash(a, 1e-6) == Hash(b, 1e-6) {
		t.Error("Hash should differ when the cutout flag differs")
	}
}
