package cns

import "github.com/chazu/csgevo/pkg/csgtree"

// Pairwise handles the clique-size-2 special case: rather than running the
// full genetic search, it enumerates the four candidate combinations of two
// primitives and returns whichever ranks highest under rk.
func Pairwise(a, b *csgtree.Node, rk Ranker) *csgtree.Node {
	candidates := []*csgtree.Node{
		csgtree.Union(a.Clone(), b.Clone()),
		csgtree.Intersection(a.Clone(), b.Clone()),
		csgtree.Difference(a.Clone(), b.Clone()),
		csgtree.Difference(b.Clone(), a.Clone()),
	}

	best := candidates[0]
	bestRank := rk.Rank(best)
	for _, c := range candidates[1:] {
		if r := rk.Rank(c); r > bestRank {
			best, bestRank = c, r
		}
	}
	return best
}
