// Package csgtree is the boolean-tree representation the evolutionary
// searches mutate and the geometry kernel evaluates: a binary tree of
// Union/Intersection/Difference/Complement operators over Geometry leaves,
// each leaf wrapping a constructed manifold.Primitive.
package csgtree

import (
	"fmt"

	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// Op enumerates the tree's node operators.
type Op int

const (
	OpGeometry     Op = iota // leaf: wraps a primitive
	OpUnion                  // binary
	OpIntersection           // binary
	OpDifference             // binary, order-sensitive (Left - Right)
	OpComplement             // unary
	OpNoop                   // identity passthrough over Left; used as a merge placeholder
)

func (o Op) String() string {
	switch o {
	case OpGeometry:
		return "geometry"
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	case OpComplement:
		return "complement"
	case OpNoop:
		return "noop"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Arity returns how many children o expects.
func (o Op) Arity() int {
	switch o {
	case OpGeometry:
		return 0
	case OpComplement, OpNoop:
		return 1
	default:
		return 2
	}
}

// Node is one operator or leaf in a CSG tree. Nodes are treated as
// immutable once built: mutation operators in the evolutionary searches
// construct new nodes rather than editing existing ones, so a Node can be
// shared freely between creatures.
type Node struct {
	Op        Op
	Left      *Node
	Right     *Node
	Primitive manifold.Primitive // only meaningful when Op == OpGeometry

	implicit sdfkernel.ImplicitFn // lazily built, cached
}

// Geometry wraps p as a leaf node.
func Geometry(p manifold.Primitive) *Node {
	return &Node{Op: OpGeometry, Primitive: p}
}

// Union, Intersection and Difference build the corresponding binary node.
func Union(a, b *Node) *Node        { return &Node{Op: OpUnion, Left: a, Right: b} }
func Intersection(a, b *Node) *Node { return &Node{Op: OpIntersection, Left: a, Right: b} }
func Difference(a, b *Node) *Node   { return &Node{Op: OpDifference, Left: a, Right: b} }

// Complement negates a.
func Complement(a *Node) *Node { return &Node{Op: OpComplement, Left: a} }

// Noop wraps a as an identity passthrough, used by the clique orchestrator
// as a deterministic placeholder when a merge step has nothing to merge.
func Noop(a *Node) *Node { return &Node{Op: OpNoop, Left: a} }

// Implicit builds (and caches) the sdfkernel.ImplicitFn this node
// evaluates to. Children are built recursively and results are cached per
// node, so re-evaluating an unmodified subtree after a mutation elsewhere
// in the creature costs nothing.
func (n *Node) Implicit() sdfkernel.ImplicitFn {
	if n == nil {
		return sdfkernel.Empty()
	}
	if n.implicit != nil {
		return n.implicit
	}
	switch n.Op {
	case OpGeometry:
		n.implicit = n.Primitive.Implicit
	case OpUnion:
		n.implicit = sdfkernel.Union{A: n.Left.Implicit(), B: n.Right.Implicit()}
	case OpIntersection:
		n.implicit = sdfkernel.Intersection{A: n.Left.Implicit(), B: n.Right.Implicit()}
	case OpDifference:
		n.implicit = sdfkernel.Difference{A: n.Left.Implicit(), B: n.Right.Implicit()}
	case OpComplement:
		n.implicit = sdfkernel.Complement{A: n.Left.Implicit()}
	case OpNoop:
		n.implicit = n.Left.Implicit()
	default:
		n.implicit = sdfkernel.Empty()
	}
	return n.implicit
}

// NumNodes counts n and all its descendants.
func (n *Node) NumNodes() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.NumNodes() + n.Right.NumNodes()
}

// Depth returns the length of the longest path from n to a leaf, with a
// single leaf having depth 1.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.Depth(), n.Right.Depth()
	if l > r {
		return l + 1
	}
	return r + 1
}

// Geometries collects every OpGeometry leaf reachable from n, in left-to-right order.
func (n *Node) Geometries() []*Node {
	if n == nil {
		return nil
	}
	if n.Op == OpGeometry {
		return []*Node{n}
	}
	var out []*Node
	out = append(out, n.Left.Geometries()...)
	out = append(out, n.Right.Geometries()...)
	return out
}

// Clone deep-copies the subtree rooted at n. Primitive values are shared
// (they're immutable) but Node pointers are fresh, so mutating the clone's
// structure never affects n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{
		Op:        n.Op,
		Left:      n.Left.Clone(),
		Right:     n.Right.Clone(),
		Primitive: n.Primitive,
	}
}
