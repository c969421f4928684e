package csgtree

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
)

func sphereLeaf(t *testing.T, centre r3.Vec, radius float64) *Node {
	t.Helper()
	p, ok := manifold.CreateSphere(manifold.Sphere(centre, radius, nil))
	if !ok {
		t.Fatalf("CreateSphere(%v, %f) failed", centre, radius)
	}
	return Geometry(p)
}

func TestNumNodesAndDepth(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)

	tests := []struct {
		name      string
		tree      *Node
		wantNodes int
		wantDepth int
	}{
		{"single leaf", a, 1, 1},
		{"union of two leaves", Union(a, b), 3, 2},
		{"complement of union", Complement(Union(a, b)), 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tree.NumNodes(); got != tt.wantNodes {
				t.Errorf("NumNodes() = %d, want %d", got, tt.wantNodes)
			}
			if got := tt.tree.Depth(); got != tt.wantDepth {
				t.Errorf("Depth() = %d, want %d", got, tt.wantDepth)
			}
		})
	}
}

func TestImplicitUnionIsInsideEitherSphere(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 5}, 1)
	tree := Union(a, b)

	impl := tree.Implicit()
	if d := impl.SignedDistance(r3.Vec{}); d >= 0 {
		t.Errorf("centre of A should be inside union, got distance %f", d)
	}
	if d := impl.SignedDistance(r3.Vec{X: 5}); d >= 0 {
		t.Errorf("centre of B should be inside union, got distance %f", d)
	}
	if d := impl.SignedDistance(r3.Vec{X: 2.5}); d <= 0 {
		t.Errorf("midpoint between spheres should be outside union, got distance %f", d)
	}
}

func TestImplicitIsCached(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	first := a.Implicit()
	second := a.Implicit()
	if first != second {
		t.Error("Implicit() should return the cached value on repeated calls")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)
	tree := Union(a, b)

	clone := tree.Clone()
	clone.Left = sphereLeaf(t, r3.Vec{X: 10}, 1)

	if tree.Left == clone.Left {
		t.Error("mutating the clone's child should not affect the original tree")
	}
}

func TestGeometries(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)
	c := sphereLeaf(t, r3.Vec{X: 6}, 1)
	tree := Difference(Union(a, b), c)

	got := tree.Geometries()
	if len(got) != 3 {
		t.Fatalf("Geometries() returned %d leaves, want 3", len(got))
	}
}

func TestValidateRejectsWrongArity(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	bad := &Node{Op: OpUnion, Left: a} // missing Right

	errs := Validate(bad)
	if len(errs) == 0 {
		t.Error("Validate should reject a union node missing its right child")
	}
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)
	tree := Complement(Union(a, b))

	if errs := Validate(tree); len(errs) != 0 {
		t.Errorf("Validate(well-formed tree) = %v, want no errors", errs)
	}
}

func TestBinarizeReassociatesNaryUnion(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)
	c := sphereLeaf(t, r3.Vec{X: 6}, 1)

	raw := &RawNode{
		Op: OpUnion,
		Children: []*RawNode{
			{Op: OpGeometry, Primitive: a.Primitive},
			{Op: OpGeometry, Primitive: b.Primitive},
			{Op: OpGeometry, Primitive: c.Primitive},
		},
	}

	tree, err := Binarize(raw)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if tree.Op != OpUnion {
		t.Fatalf("root op = %v, want union", tree.Op)
	}
	if got := len(tree.Geometries()); got != 3 {
		t.Errorf("binarized tree has %d leaves, want 3", got)
	}
	if tree.NumNodes() != 5 { // 2 union nodes + 3 leaves
		t.Errorf("NumNodes() = %d, want 5", tree.NumNodes())
	}
}

func TestBinarizeRejectsBadArity(t *testing.T) {
	a := sphereLeaf(t, r3.Vec{}, 1)
	raw := &RawNode{
		Op:       OpDifference,
		Children: []*RawNode{{Op: OpGeometry, Primitive: a.Primitive}},
	}
	if _, err := Binarize(raw); err == nil {
		t.Error("Binarize should reject a difference node with only 1 child")
	}
}

func TestSerializeTreeMatchesForEquivalentPrimitives(t *testing.T) {
	a1 := sphereLeaf(t, r3.Vec{}, 1)
	a2 := sphereLeaf(t, r3.Vec{}, 1) // distinct instance, same geometry
	b := sphereLeaf(t, r3.Vec{X: 3}, 1)

	s1 := SerializeString(Union(a1, b))
	s2 := SerializeString(Union(a2, b))
	if s1 != s2 {
		t.Errorf("serialization of structurally-equal trees differ: %q vs %q", s1, s2)
	}
}
