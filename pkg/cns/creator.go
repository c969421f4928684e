// Package cns is the CSG-Node Search: a genetic-programming search over
// CSG expression trees whose leaves are primitives and whose internal
// nodes are boolean operators, fit against an in/out geometry-consistency
// score with a size penalty.
package cns

import (
	"math/rand/v2"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
)

var binaryOps = []csgtree.Op{csgtree.OpUnion, csgtree.OpIntersection, csgtree.OpDifference}

// Params configures the CNS creator.
type Params struct {
	Primitives    []manifold.Primitive
	CreateNewProb float64 // mutate: probability of replacing the whole tree
	SubtreeProb   float64 // create: probability of recursing into an operator vs. a leaf
	MaxDepth      int
}

// Creator implements evo.Creator[*csgtree.Node].
type Creator struct {
	Params Params
}

func (c Creator) randomLeaf(rng *rand.Rand) *csgtree.Node {
	if len(c.Params.Primitives) == 0 {
		return csgtree.Geometry(manifold.None)
	}
	p := c.Params.Primitives[rng.IntN(len(c.Params.Primitives))]
	return csgtree.Geometry(p)
}

// Create builds a random tree up to Params.MaxDepth, matching the
// spec's recursive shape: a leaf at depth 0, else a uniformly-chosen
// binary operator whose children recurse with probability SubtreeProb.
func (c Creator) Create(rng *rand.Rand) *csgtree.Node {
	return c.createAt(rng, c.Params.MaxDepth)
}

func (c Creator) createAt(rng *rand.Rand, depthBudget int) *csgtree.Node {
	if depthBudget <= 0 {
		return c.randomLeaf(rng)
	}
	op := binaryOps[rng.IntN(len(binaryOps))]

	makeChild := func() *csgtree.Node {
		if rng.Float64() < c.Params.SubtreeProb {
			return c.createAt(rng, depthBudget-1)
		}
		return c.randomLeaf(rng)
	}

	left, right := makeChild(), makeChild()
	switch op {
	case csgtree.OpUnion:
		return csgtree.Union(left, right)
	case csgtree.OpIntersection:
		return csgtree.Intersection(left, right)
	default:
		return csgtree.Difference(left, right)
	}
}

// Mutate either replaces the whole tree (with probability CreateNewProb)
// or picks a uniform random node and replaces its subtree with a freshly
// grown one sized to the remaining depth budget.
func (c Creator) Mutate(n *csgtree.Node, rng *rand.Rand) *csgtree.Node {
	if rng.Float64() < c.Params.CreateNewProb {
		return c.Create(rng)
	}

	clone := n.Clone()
	nodes := collectNodes(clone)
	if len(nodes) == 0 {
		return clone
	}
	target := nodes[rng.IntN(len(nodes))]
	depthUsed := pathDepth(clone, target)
	budget := c.Params.MaxDepth - depthUsed
	if budget < 0 {
		budget = 0
	}
	replacement := c.createAt(rng, budget)
	*target = *replacement
	return clone
}

// Crossover swaps a random subtree between a and b and returns both
// resulting trees, falling back to the original subtree on whichever side
// the swap would push past MaxDepth (each side is checked independently).
func (c Creator) Crossover(a, b *csgtree.Node, rng *rand.Rand) (*csgtree.Node, *csgtree.Node) {
	cloneA := a.Clone()
	cloneB := b.Clone()

	nodesA := collectNodes(cloneA)
	nodesB := collectNodes(cloneB)
	if len(nodesA) == 0 || len(nodesB) == 0 {
		return cloneA, cloneB
	}

	ta := nodesA[rng.IntN(len(nodesA))]
	tb := nodesB[rng.IntN(len(nodesB))]

	depthAboveA := pathDepth(cloneA, ta)
	depthAboveB := pathDepth(cloneB, tb)
	origA := ta.Clone()
	origB := tb.Clone()

	if depthAboveA+origB.Depth() <= c.Params.MaxDepth {
		*ta = *origB
	}
	if depthAboveB+origA.Depth() <= c.Params.MaxDepth {
		*tb = *origA
	}

	return cloneA, cloneB
}

// collectNodes returns every node in the tree rooted at n, in a stable
// pre-order so that index-based selection is reproducible given a fixed
// RNG draw.
func collectNodes(n *csgtree.Node) []*csgtree.Node {
	if n == nil {
		return nil
	}
	out := []*csgtree.Node{n}
	out = append(out, collectNodes(n.Left)...)
	out = append(out, collectNodes(n.Right)...)
	return out
}

// pathDepth returns the depth (root = 0) at which target occurs in the
// tree rooted at root, or 0 if not found.
func pathDepth(root, target *csgtree.Node) int {
	d, found := pathDepthRec(root, target, 0)
	if !found {
		return 0
	}
	return d
}

func pathDepthRec(n, target *csgtree.Node, depth int) (int, bool) {
	if n == nil {
		return 0, false
	}
	if n == target {
		return depth, true
	}
	if d, ok := pathDepthRec(n.Left, target, depth+1); ok {
		return d, true
	}
	return pathDepthRec(n.Right, target, depth+1)
}
