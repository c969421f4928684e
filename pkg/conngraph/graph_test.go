package conngraph

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
)

func sphereAt(t *testing.T, x float64) manifold.Primitive {
	t.Helper()
	p, ok := manifold.CreateSphere(manifold.Sphere(r3.Vec{X: x}, 1, nil))
	if !ok {
		t.Fatalf("CreateSphere at x=%f failed", x)
	}
	return p
}

func TestBuildAABBOverlap(t *testing.T) {
	prims := []manifold.Primitive{
		sphereAt(t, 0),  // overlaps with x=1.5
		sphereAt(t, 1.5), // overlaps with x=0 only
		sphereAt(t, 10),  // isolated
	}
	g := Build(prims, AABBOverlap)

	if !g.Connected(0, 1) {
		t.Error("spheres at x=0 and x=1.5 should be connected")
	}
	if g.Connected(0, 2) {
		t.Error("spheres at x=0 and x=10 should not be connected")
	}
	if g.Connected(1, 2) {
		t.Error("spheres at x=1.5 and x=10 should not be connected")
	}
}

func TestEnumerateCliquesTriangle(t *testing.T) {
	prims := []manifold.Primitive{
		sphereAt(t, 0),
		sphereAt(t, 1),
		sphereAt(t, 2),
	}
	g := Build(prims, AABBOverlap)

	cliques := EnumerateCliques(g)
	if len(cliques) != 1 {
		t.Fatalf("got %d cliques, want 1 (all three mutually overlapping)", len(cliques))
	}
	if len(cliques[0]) != 3 {
		t.Errorf("clique size = %d, want 3", len(cliques[0]))
	}
}

func TestEnumerateCliquesDisconnected(t *testing.T) {
	prims := []manifold.Primitive{
		sphereAt(t, 0),
		sphereAt(t, 100),
	}
	g := Build(prims, AABBOverlap)

	cliques := EnumerateCliques(g)
	if len(cliques) != 2 {
		t.Fatalf("got %d cliques, want 2 singletons", len(cliques))
	}
	for _, c := range cliques {
		if len(c) != 1 {
			t.Errorf("clique %v has size %d, want 1", c, len(c))
		}
	}
}

func TestEnumerateCliquesEmptyGraph(t *testing.T) {
	g := Build(nil, AABBOverlap)
	if cliques := EnumerateCliques(g); len(cliques) != 0 {
		t.Errorf("empty graph should have no cliques, got %d", len(cliques))
	}
}
