package cns

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

func twoSpheres() []manifold.Primitive {
	a, _ := manifold.CreateSphere(manifold.Sphere(r3.Vec{}, 1, nil))
	b, _ := manifold.CreateSphere(manifold.Sphere(r3.Vec{X: 1.5}, 1, nil))
	return []manifold.Primitive{a, b}
}

func defaultCreatorParams() Params {
	return Params{
		Primitives:    twoSpheres(),
		CreateNewProb: 0.1,
		SubtreeProb:   0.6,
		MaxDepth:      3,
	}
}

func TestCreateRespectsMaxDepth(t *testing.T) {
	c := Creator{Params: defaultCreatorParams()}
	rng := rand.New(rand.NewPCG(1, 1))

	for i := 0; i < 20; i++ {
		n := c.Create(rng)
		if n.Depth() > c.Params.MaxDepth+1 {
			t.Fatalf("Depth() = %d, want <= %d", n.Depth(), c.Params.MaxDepth+1)
		}
	}
}

func TestMutateProducesValidTree(t *testing.T) {
	c := Creator{Params: defaultCreatorParams()}
	rng := rand.New(rand.NewPCG(2, 2))

	n := c.Create(rng)
	mutated := c.Mutate(n, rng)
	if errs := csgtree.Validate(mutated); len(errs) != 0 {
		t.Errorf("Validate(mutated) = %v, want no errors", errs)
	}
}

func TestCrossoverProducesValidTrees(t *testing.T) {
	c := Creator{Params: defaultCreatorParams()}
	rng := rand.New(rand.NewPCG(3, 3))

	a := c.Create(rng)
	b := c.Create(rng)
	childA, childB := c.Crossover(a, b, rng)
	if errs := csgtree.Validate(childA); len(errs) != 0 {
		t.Errorf("Validate(childA) = %v, want no errors", errs)
	}
	if errs := csgtree.Validate(childB); len(errs) != 0 {
		t.Errorf("Validate(childB) = %v, want no errors", errs)
	}
	if childA.Depth() > c.Params.MaxDepth+1 {
		t.Errorf("childA.Depth() = %d, want <= %d", childA.Depth(), c.Params.MaxDepth+1)
	}
	if childB.Depth() > c.Params.MaxDepth+1 {
		t.Errorf("childB.Depth() = %d, want <= %d", childB.Depth(), c.Params.MaxDepth+1)
	}
}

func TestGeometryScorePerfectMatch(t *testing.T) {
	sphere, _ := manifold.CreateSphere(manifold.Sphere(r3.Vec{}, 1, nil))
	leaf := csgtree.Geometry(sphere)

	pc := pointcloud.New([][6]float64{
		{1, 0, 0, 1, 0, 0},
		{0, 1, 0, 0, 1, 0},
		{-1, 0, 0, -1, 0, 0},
	})
	rk := Ranker{Params: RankerParams{PC: pc, DistanceEps: 0.01, AngleEps: 0.2}}

	if got := rk.GeometryScore(leaf); got < 0.99 {
		t.Errorf("GeometryScore = %f, want ~1 for points exactly on the sphere", got)
	}
}

func TestRankPenalizesSize(t *testing.T) {
	sphere, _ := manifold.CreateSphere(manifold.Sphere(r3.Vec{}, 1, nil))
	leaf := csgtree.Geometry(sphere)
	bushy := csgtree.Union(csgtree.Geometry(sphere), csgtree.Geometry(sphere))

	pc := pointcloud.New([][6]float64{{1, 0, 0, 1, 0, 0}})
	rk := Ranker{Params: RankerParams{PC: pc, DistanceEps: 0.01, AngleEps: 0.2, SizePenalty: 0.5}}

	if rk.Rank(leaf) <= rk.Rank(bushy) {
		t.Error("a smaller tree with the same geometry score should rank higher under a positive size penalty")
	}
}

func TestPairwisePicksBestCombination(t *testing.T) {
	prims := twoSpheres()
	a := csgtree.Geometry(prims[0])
	b := csgtree.Geometry(prims[1])

	pc := pointcloud.New([][6]float64{
		{-1, 0, 0, -1, 0, 0},
		{2.5, 0, 0, 1, 0, 0},
	})
	rk := Ranker{Params: RankerParams{PC: pc, DistanceEps: 0.05, AngleEps: 0.3}}

	best := Pairwise(a, b, rk)
	if best.Op != csgtree.OpUnion {
		t.Errorf("Op = %v, want union for two overlapping spheres whose outer surfaces both need coverage", best.Op)
	}
}

func TestSizePenaltyIsLogOfTotalPoints(t *testing.T) {
	if got, want := SizePenalty([]int{3, 4}), math.Log(7); math.Abs(got-want) > 1e-9 {
		t.Errorf("SizePenalty([3,4]) = %f, want %f", got, want)
	}
	if got := SizePenalty([]int{1}); got != 0 {
		t.Errorf("SizePenalty([1]) = %f, want 0 for a single-point total", got)
	}
	if got := SizePenalty(nil); got != 0 {
		t.Errorf("SizePenalty(nil) = %f, want 0", got)
	}
}
