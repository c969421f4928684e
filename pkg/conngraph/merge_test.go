package conngraph

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
)

func leaf(t *testing.T, x float64) *csgtree.Node {
	t.Helper()
	p, ok := manifold.CreateSphere(manifold.Sphere(r3.Vec{X: x}, 1, nil))
	if !ok {
		t.Fatalf("CreateSphere at x=%f failed", x)
	}
	return csgtree.Geometry(p)
}

func TestLargestCommonSubgraphFindsSharedRun(t *testing.T) {
	sA := []string{"union", "geometry:1", "geometry:2"}
	sB := []string{"intersection", "geometry:9", "union", "geometry:1", "geometry:2"}

	match := LargestCommonSubgraph(sA, sB)
	if match.Size != 3 {
		t.Fatalf("Size = %d, want 3", match.Size)
	}
	if match.StartA != 0 || match.StartB != 2 {
		t.Errorf("StartA/StartB = %d/%d, want 0/2", match.StartA, match.StartB)
	}
}

func TestLargestCommonSubgraphNoOverlap(t *testing.T) {
	sA := []string{"union", "geometry:1", "geometry:2"}
	sB := []string{"complement", "geometry:9"}
	if match := LargestCommonSubgraph(sA, sB); match.Size != 0 {
		t.Errorf("Size = %d, want 0", match.Size)
	}
}

func TestMergePicksHigherRanked(t *testing.T) {
	a := leaf(t, 0)
	b := leaf(t, 1)
	rank := func(n *csgtree.Node) float64 {
		if n == a {
			return 1.0
		}
		return 2.0
	}

	got, result := Merge(a, b, LCSMatch{}, rank)
	if result != MergeSecond || got != b {
		t.Errorf("Merge should pick the higher-ranked input (b), got result=%v", result)
	}
}
