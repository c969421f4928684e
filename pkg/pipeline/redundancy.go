package pipeline

import "github.com/chazu/csgevo/pkg/csgtree"

// RemoveRedundancies walks n bottom-up collapsing the structurally
// redundant shapes a CNS search tends to introduce: Union/Intersection
// over two structurally-identical children collapse to one child, and
// Difference of a node from itself collapses to the empty (Noop-wrapped)
// tree rather than evaluating to a degenerate negative-everywhere SDF.
func RemoveRedundancies(n *csgtree.Node) *csgtree.Node {
	if n == nil {
		return nil
	}
	switch n.Op {
	case csgtree.OpGeometry:
		return n
	case csgtree.OpComplement:
		return csgtree.Complement(RemoveRedundancies(n.Left))
	case csgtree.OpNoop:
		return csgtree.Noop(RemoveRedundancies(n.Left))
	}

	left := RemoveRedundancies(n.Left)
	right := RemoveRedundancies(n.Right)

	if csgtree.SerializeString(left) == csgtree.SerializeString(right) {
		switch n.Op {
		case csgtree.OpUnion, csgtree.OpIntersection:
			return left
		case csgtree.OpDifference:
			return csgtree.Noop(nil)
		}
	}

	switch n.Op {
	case csgtree.OpUnion:
		return csgtree.Union(left, right)
	case csgtree.OpIntersection:
		return csgtree.Intersection(left, right)
	default:
		return csgtree.Difference(left, right)
	}
}
