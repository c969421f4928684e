package pss

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
)

func sphereManifolds() []manifold.Manifold {
	return []manifold.Manifold{
		manifold.Sphere(r3.Vec{}, 1, nil),
		manifold.Sphere(r3.Vec{X: 5}, 2, nil),
	}
}

func boxManifolds() []manifold.Manifold {
	return []manifold.Manifold{
		manifold.Plane(r3.Vec{X: 1}, r3.Vec{X: 1}, nil),
		manifold.Plane(r3.Vec{X: -1}, r3.Vec{X: -1}, nil),
		manifold.Plane(r3.Vec{Y: 1}, r3.Vec{Y: 1}, nil),
		manifold.Plane(r3.Vec{Y: -1}, r3.Vec{Y: -1}, nil),
		manifold.Plane(r3.Vec{Z: 1}, r3.Vec{Z: 1}, nil),
		manifold.Plane(r3.Vec{Z: -1}, r3.Vec{Z: -1}, nil),
	}
}

func defaultParams(ms []manifold.Manifold) Params {
	return Params{
		Manifolds:                ms,
		MutationDistribution:     DefaultMutationDistribution(),
		MaxMutationIters:         3,
		MaxCrossoverIters:        1,
		MaxSetSize:               5,
		AngleEps:                 0.05,
		MinParallelPlaneDistance: 1e-6,
	}
}

func TestCreatePrimitiveSphere(t *testing.T) {
	c := Creator{Params: defaultParams(sphereManifolds())}
	rng := rand.New(rand.NewPCG(1, 1))

	p, ok := c.CreatePrimitive(rng)
	if !ok {
		t.Fatal("CreatePrimitive should succeed with sphere manifolds available")
	}
	if p.Kind != manifold.KindSpherePrim {
		t.Errorf("Kind = %v, want Sphere", p.Kind)
	}
}

func TestCreatePrimitiveBox(t *testing.T) {
	c := Creator{Params: defaultParams(boxManifolds())}
	rng := rand.New(rand.NewPCG(2, 2))

	p, ok := c.CreatePrimitive(rng)
	if !ok {
		t.Fatal("CreatePrimitive should succeed building a box from 6 orthogonal planes")
	}
	if p.Kind != manifold.KindBox {
		t.Errorf("Kind = %v, want Box", p.Kind)
	}
}

func TestCreatePrimitiveFailsWithNoManifolds(t *testing.T) {
	c := Creator{Params: defaultParams(nil)}
	rng := rand.New(rand.NewPCG(3, 3))
	if _, ok := c.CreatePrimitive(rng); ok {
		t.Error("CreatePrimitive should fail with no manifolds available")
	}
}

func TestCreateProducesNonEmptySet(t *testing.T) {
	c := Creator{Params: defaultParams(sphereManifolds())}
	rng := rand.New(rand.NewPCG(4, 4))

	set := c.Create(rng)
	if len(set) == 0 {
		t.Error("Create should produce at least one primitive")
	}
	if len(set) > c.Params.MaxSetSize {
		t.Errorf("set size %d exceeds MaxSetSize %d", len(set), c.Params.MaxSetSize)
	}
}

func TestMutateDoesNotPanicOnEmptySet(t *testing.T) {
	c := Creator{Params: defaultParams(sphereManifolds())}
	rng := rand.New(rand.NewPCG(5, 5))

	_ = c.Mutate(Set{}, rng)
}

func TestCrossoverRangeSwap(t *testing.T) {
	c := Creator{Params: defaultParams(sphereManifolds())}
	rng := rand.New(rand.NewPCG(6, 6))

	a := c.Create(rng)
	b := c.Create(rng)
	for len(a) == 0 {
		a = c.Create(rng)
	}
	for len(b) == 0 {
		b = c.Create(rng)
	}

	childA, childB := c.Crossover(a, b, rng)
	if childA == nil || childB == nil {
		t.Error("Crossover should return two non-nil sets")
	}
	// The two children are a symmetric swap of the same two tails, so their
	// combined size always equals the combined size of the two parents.
	if len(childA)+len(childB) != len(a)+len(b) {
		t.Errorf("len(childA)+len(childB) = %d, want %d (= len(a)+len(b))",
			len(childA)+len(childB), len(a)+len(b))
	}
}

func TestSetHashIsStableAndOrderSensitiveOnCutout(t *testing.T) {
	p, _ := manifold.CreateSphere(manifold.Sphere(r3.Vec{}, 1, nil))
	s1 := Set{p}
	s2 := Set{p}
	if s1.Hash() != s2.Hash() {
		t.Error("identical sets should hash identically")
	}

	s3 := Set{p.WithCutout(true)}
	if s1.Hash() == s3.Hash() {
		t.Error("sets differing only by cutout should hash differently")
	}
}
