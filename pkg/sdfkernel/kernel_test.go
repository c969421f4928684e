package sdfkernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSphereSignedDistance(t *testing.T) {
	s, ok := NewSphere(r3.Vec{}, 1)
	if !ok {
		t.Fatal("NewSphere failed")
	}
	tests := []struct {
		name string
		p    r3.Vec
		want float64
	}{
		{"centre", r3.Vec{}, -1},
		{"on surface", r3.Vec{X: 1, Y: 0, Z: 0}, 0},
		{"outside", r3.Vec{X: 2, Y: 0, Z: 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SignedDistance(tt.p)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("SignedDistance(%v) = %f, want %f", tt.p, got, tt.want)
			}
		})
	}
}

func TestSphereGradientAlignsWithNormal(t *testing.T) {
	s, _ := NewSphere(r3.Vec{}, 1)
	p := r3.Vec{X: 1, Y: 0, Z: 0}
	_, grad := s.SignedDistanceAndGradient(p)
	if r3.Dot(grad, p) <= 0.9 {
		t.Errorf("gradient %v does not align with surface normal at %v", grad, p)
	}
}

func TestNewSphereRejectsNonPositiveRadius(t *testing.T) {
	if _, ok := NewSphere(r3.Vec{}, 0); ok {
		t.Error("NewSphere(0) should fail")
	}
	if _, ok := NewSphere(r3.Vec{}, -1); ok {
		t.Error("NewSphere(-1) should fail")
	}
}

func TestCylinderCappedAxisAligned(t *testing.T) {
	c, ok := NewCylinderCapped(r3.Vec{}, r3.Vec{X: 0, Y: 0, Z: 1}, 1, 2)
	if !ok {
		t.Fatal("NewCylinderCapped failed")
	}
	// Centre is inside.
	if d := c.SignedDistance(r3.Vec{}); d >= 0 {
		t.Errorf("centre distance = %f, want negative", d)
	}
	// Far outside.
	if d := c.SignedDistance(r3.Vec{X: 10, Y: 0, Z: 0}); d <= 0 {
		t.Errorf("far point distance = %f, want positive", d)
	}
}

func TestCylinderCappedTiltedAxis(t *testing.T) {
	axis := r3.Vec{X: 1, Y: 1, Z: 1}
	axis = r3.Scale(1/r3.Norm(axis), axis)
	c, ok := NewCylinderCapped(r3.Vec{}, axis, 1, 4)
	if !ok {
		t.Fatal("NewCylinderCapped failed")
	}
	if d := c.SignedDistance(r3.Vec{}); d >= 0 {
		t.Errorf("centre distance along tilted axis = %f, want negative", d)
	}
}

func TestPolytopeUnitCube(t *testing.T) {
	faces := unitCubeFaces()
	poly, ok := NewPolytope(faces)
	if !ok {
		t.Fatal("NewPolytope failed for a well-formed cube")
	}
	if d := poly.SignedDistance(r3.Vec{}); d >= 0 {
		t.Errorf("centre distance = %f, want negative", d)
	}
	if d := poly.SignedDistance(r3.Vec{X: 10, Y: 10, Z: 10}); d <= 0 {
		t.Errorf("far point distance = %f, want positive", d)
	}
}

func TestPolytopeInfeasibleIsEmpty(t *testing.T) {
	// Two opposing half-spaces that don't overlap: x <= -1 and x >= 1 (i.e. -x <= -1).
	faces := []HalfSpace{
		{P: r3.Vec{X: -1}, N: r3.Vec{X: 1}},
		{P: r3.Vec{X: 1}, N: r3.Vec{X: -1}},
	}
	fn, ok := NewPolytope(faces)
	if ok {
		t.Error("NewPolytope should reject an infeasible half-space intersection")
	}
	if !IsEmpty(fn) {
		t.Error("infeasible polytope should return the Empty sentinel")
	}
}

func TestPolytopeMeshUnitCube(t *testing.T) {
	faces := unitCubeFaces()
	polyFaces, ok := PolytopeMesh(faces)
	if !ok {
		t.Fatal("PolytopeMesh failed")
	}
	if len(polyFaces) != 6 {
		t.Fatalf("got %d faces, want 6", len(polyFaces))
	}
	tris, ok := Triangulate(polyFaces)
	if !ok {
		t.Fatalf("Triangulate: got %d triangles, want 12", len(tris))
	}
}

func TestUnionIsMin(t *testing.T) {
	a, _ := NewSphere(r3.Vec{}, 1)
	b, _ := NewSphere(r3.Vec{X: 5}, 1)
	u := Union{A: a, B: b}
	p := r3.Vec{}
	want := minf(a.SignedDistance(p), b.SignedDistance(p))
	if got := u.SignedDistance(p); got != want {
		t.Errorf("Union.SignedDistance = %f, want %f", got, want)
	}
}

func TestDifferenceMatchesFormula(t *testing.T) {
	a, _ := NewSphere(r3.Vec{}, 2)
	b, _ := NewSphere(r3.Vec{}, 1)
	d := Difference{A: a, B: b}
	p := r3.Vec{X: 1.5}
	want := maxf(a.SignedDistance(p), -b.SignedDistance(p))
	if got := d.SignedDistance(p); math.Abs(got-want) > 1e-9 {
		t.Errorf("Difference.SignedDistance = %f, want %f", got, want)
	}
}

func TestComplementNegates(t *testing.T) {
	a, _ := NewSphere(r3.Vec{}, 1)
	c := Complement{A: a}
	p := r3.Vec{X: 2}
	if got, want := c.SignedDistance(p), -a.SignedDistance(p); got != want {
		t.Errorf("Complement.SignedDistance = %f, want %f", got, want)
	}
}

func unitCubeFaces() []HalfSpace {
	return []HalfSpace{
		{P: r3.Vec{X: 1}, N: r3.Vec{X: 1}},
		{P: r3.Vec{X: -1}, N: r3.Vec{X: -1}},
		{P: r3.Vec{Y: 1}, N: r3.Vec{Y: 1}},
		{P: r3.Vec{Y: -1}, N: r3.Vec{Y: -1}},
		{P: r3.Vec{Z: 1}, N: r3.Vec{Z: 1}},
		{P: r3.Vec{Z: -1}, N: r3.Vec{Z: -1}},
	}
}
