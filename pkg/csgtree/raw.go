package csgtree

import (
	"fmt"

	"github.com/chazu/csgevo/pkg/manifold"
)

// RawNode is the n-ary, JSON-facing tree shape accepted at the pipeline's
// load boundary: Union/Intersection may carry any number of children there,
// before Binarize folds them down to the strictly-binary Node form the
// rest of the system works with.
type RawNode struct {
	Op        Op
	Children  []*RawNode
	Primitive manifold.Primitive // only set when Op == OpGeometry
}

// Binarize re-associates n-ary Union/Intersection children left-deep and
// checks the arity of every other operator, producing the binary Node
// tree the evolutionary searches and kernel operate on.
func Binarize(r *RawNode) (*Node, error) {
	if r == nil {
		return nil, fmt.Errorf("csgtree: nil raw node")
	}

	switch r.Op {
	case OpGeometry:
		if len(r.Children) != 0 {
			return nil, fmt.Errorf("csgtree: geometry node must have 0 children, got %d", len(r.Children))
		}
		return Geometry(r.Primitive), nil

	case OpComplement, OpNoop:
		if len(r.Children) != 1 {
			return nil, fmt.Errorf("csgtree: %s node must have exactly 1 child, got %d", r.Op, len(r.Children))
		}
		child, err := Binarize(r.Children[0])
		if err != nil {
			return nil, err
		}
		if r.Op == OpComplement {
			return Complement(child), nil
		}
		return Noop(child), nil

	case OpDifference:
		if len(r.Children) != 2 {
			return nil, fmt.Errorf("csgtree: difference node must have exactly 2 children, got %d", len(r.Children))
		}
		a, err := Binarize(r.Children[0])
		if err != nil {
			return nil, err
		}
		b, err := Binarize(r.Children[1])
		if err != nil {
			return nil, err
		}
		return Difference(a, b), nil

	case OpUnion, OpIntersection:
		if len(r.Children) < 2 {
			return nil, fmt.Errorf("csgtree: %s node must have at least 2 children, got %d", r.Op, len(r.Children))
		}
		nodes := make([]*Node, 0, len(r.Children))
		for _, c := range r.Children {
			n, err := Binarize(c)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		acc := nodes[0]
		for _, n := range nodes[1:] {
			if r.Op == OpUnion {
				acc = Union(acc, n)
			} else {
				acc = Intersection(acc, n)
			}
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("csgtree: unknown operator %v", r.Op)
	}
}
