package pointcloud

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewAndLen(t *testing.T) {
	tests := []struct {
		name string
		rows [][6]float64
		want int
	}{
		{"empty", nil, 0},
		{"one point", [][6]float64{{0, 0, 0, 0, 0, 1}}, 1},
		{"three points", [][6]float64{{0, 0, 0, 0, 0, 1}, {1, 0, 0, 1, 0, 0}, {0, 1, 0, 0, 1, 0}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := New(tt.rows)
			if got := pc.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	pc := New([][6]float64{{1, 2, 3, 0, 0, 1}})
	p, n := pc.At(0)
	if p != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %v, want (1,2,3)", p)
	}
	if n != (r3.Vec{X: 0, Y: 0, Z: 1}) {
		t.Errorf("normal = %v, want (0,0,1)", n)
	}
}

func TestNormalize(t *testing.T) {
	pc := New([][6]float64{{0, 0, 0, 0, 0, 2}})
	norm := pc.Normalize()
	_, n := norm.At(0)
	if math.Abs(r3.Norm(n)-1) > 1e-9 {
		t.Errorf("normal length = %f, want 1", r3.Norm(n))
	}
}

func TestAppend(t *testing.T) {
	a := New([][6]float64{{0, 0, 0, 0, 0, 1}})
	b := New([][6]float64{{1, 1, 1, 1, 0, 0}})
	combined := a.Append(b)
	if combined.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", combined.Len())
	}
	p0, _ := combined.At(0)
	p1, _ := combined.At(1)
	if p0 != (r3.Vec{X: 0, Y: 0, Z: 0}) || p1 != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("unexpected appended rows: %v, %v", p0, p1)
	}
}

func TestCentroid(t *testing.T) {
	pc := New([][6]float64{
		{0, 0, 0, 0, 0, 1},
		{2, 0, 0, 0, 0, 1},
		{0, 2, 0, 0, 0, 1},
	})
	c := pc.Centroid()
	want := r3.Vec{X: 2.0 / 3, Y: 2.0 / 3, Z: 0}
	if r3.Norm(r3.Sub(c, want)) > 1e-9 {
		t.Errorf("Centroid() = %v, want %v", c, want)
	}
}

func TestProjectAxisExtent(t *testing.T) {
	pc := New([][6]float64{
		{0, 0, -5, 0, 0, 1},
		{0, 0, 5, 0, 0, 1},
		{0, 0, 0, 0, 0, 1},
	})
	min, max := pc.ProjectAxisExtent(r3.Vec{}, r3.Vec{X: 0, Y: 0, Z: 1})
	if min != -5 || max != 5 {
		t.Errorf("ProjectAxisExtent() = (%f, %f), want (-5, 5)", min, max)
	}
}

func TestEmpty(t *testing.T) {
	pc := Empty()
	if pc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pc.Len())
	}
	if c := pc.Centroid(); c != (r3.Vec{}) {
		t.Errorf("Centroid() of empty cloud = %v, want zero vector", c)
	}
}
