package csgtree

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/chazu/csgevo/pkg/manifold"
)

// SerializeTree produces a canonical linear representation of n, in
// prefix (operator-then-operands) order, keyed by each leaf's structural
// hash rather than its random PrimitiveID so that two trees built over
// equivalent-but-distinct primitive instances still compare as equal.
// Used by the clique orchestrator's largest-common-subgraph matcher.
func SerializeTree(n *Node) []string {
	var out []string
	serialize(n, &out)
	return out
}

func serialize(n *Node, out *[]string) {
	if n == nil {
		*out = append(*out, "nil")
		return
	}
	switch n.Op {
	case OpGeometry:
		*out = append(*out, fmt.Sprintf("geometry:%d", manifold.Hash(n.Primitive, 1e-6)))
	case OpComplement, OpNoop:
		*out = append(*out, n.Op.String())
		serialize(n.Left, out)
	default:
		*out = append(*out, n.Op.String())
		serialize(n.Left, out)
		serialize(n.Right, out)
	}
}

// SerializeString renders SerializeTree's tokens as a single string, handy
// for logging and DOT labels.
func SerializeString(n *Node) string {
	return strings.Join(SerializeTree(n), " ")
}

// Hash implements evo.Hashable over the tree's canonical serialization, so
// the CSG-node search can memoise fitness by structure rather than
// pointer identity.
func (n *Node) Hash() uint64 {
	h := fnv.New64a()
	for _, tok := range SerializeTree(n) {
		fmt.Fprintf(h, "%s|", tok)
	}
	return h.Sum64()
}
