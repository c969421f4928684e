// Package orchestrator is the clique orchestrator: it partitions a
// primitive set into connectivity cliques via pkg/conngraph, resolves each
// clique into a CSG subtree (skipping empty cliques, building a leaf for
// singletons, running the pairwise special case for size-2 cliques, and
// running the full CSG-node search for anything larger), then folds the
// per-clique trees into one tree by repeatedly merging the pair sharing
// the largest common subgraph.
package orchestrator

import (
	"math/rand/v2"

	"github.com/chazu/csgevo/pkg/cns"
	"github.com/chazu/csgevo/pkg/conngraph"
	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/evo"
	"github.com/chazu/csgevo/pkg/manifold"
)

// Params configures a full orchestration run.
type Params struct {
	AdjacencyPred conngraph.AdjacencyPred // nil uses conngraph.AABBOverlap
	CNSCreator    cns.Params              // Primitives is overwritten per clique
	CNSRanker     cns.RankerParams        // SizePenalty is overwritten per clique/run, see SizeWeight
	EvoParams     evo.Params
	Seed          uint64

	// SizeWeight multiplies the evidence-scaled cns.SizePenalty computed
	// from each clique's primitives' point-cloud sizes; 0 disables the size
	// term entirely, matching CNSRanker.SizePenalty's old config-only
	// meaning for a caller that never sets this.
	SizeWeight float64
}

// CliqueResult records how a single clique was resolved, for statistics
// and DOT/debug output.
type CliqueResult struct {
	Clique conngraph.Clique
	Tree   *csgtree.Node
	Stats  evo.Statistics // zero value for cliques that skipped the GA
}

// Run partitions primitives into cliques, resolves each independently and
// merges the results into a single tree. Returns csgtree.Noop(nil) wrapped
// around nothing (a harmless empty tree) if primitives is empty.
func Run(primitives []manifold.Primitive, p Params) (*csgtree.Node, []CliqueResult) {
	pred := p.AdjacencyPred
	if pred == nil {
		pred = conngraph.AABBOverlap
	}

	graph := conngraph.Build(primitives, pred)
	cliques := conngraph.EnumerateCliques(graph)

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x2545f4914f6cdd1d))

	results := make([]CliqueResult, 0, len(cliques))
	for _, clique := range cliques {
		tree, stats := resolveClique(graph, clique, p, rng)
		if tree == nil {
			continue
		}
		results = append(results, CliqueResult{Clique: clique, Tree: tree, Stats: stats})
	}

	// The fold-merge comparison spans every clique's tree at once, so its
	// size penalty is scaled against the whole primitive set's evidence
	// rather than any one clique's.
	mergeRanker := p.CNSRanker
	mergeRanker.SizePenalty = p.SizeWeight * cns.SizePenalty(pointCounts(primitives))
	rank := rankFn(mergeRanker)
	merged := foldMerge(results, rank)
	return merged, results
}

// rankerFor scales p.CNSRanker's SizePenalty by the evidence available to
// this specific clique (ln of the sum of its primitives' point-cloud
// sizes), per spec's "lambda is chosen per-call so size pressure scales
// with evidence" — evidence here meaning the primitives a given clique
// search is actually choosing among, not the whole run's.
func rankerFor(p Params, prims []manifold.Primitive) cns.RankerParams {
	rankerParams := p.CNSRanker
	rankerParams.SizePenalty = p.SizeWeight * cns.SizePenalty(pointCounts(prims))
	return rankerParams
}

func pointCounts(prims []manifold.Primitive) []int {
	out := make([]int, len(prims))
	for i, p := range prims {
		var n int
		for _, m := range p.MS {
			if m.PC != nil {
				n += m.PC.Len()
			}
		}
		out[i] = n
	}
	return out
}

func resolveClique(g *conngraph.Graph, clique conngraph.Clique, p Params, rng *rand.Rand) (*csgtree.Node, evo.Statistics) {
	switch len(clique) {
	case 0:
		return nil, evo.Statistics{}
	case 1:
		return csgtree.Geometry(g.Vertices[clique[0]].Primitive), evo.Statistics{}
	case 2:
		prims := []manifold.Primitive{g.Vertices[clique[0]].Primitive, g.Vertices[clique[1]].Primitive}
		a := csgtree.Geometry(prims[0])
		b := csgtree.Geometry(prims[1])
		rk := cns.Ranker{Params: rankerFor(p, prims)}
		return cns.Pairwise(a, b, rk), evo.Statistics{}
	default:
		return runSearch(g, clique, p, rng)
	}
}

func runSearch(g *conngraph.Graph, clique conngraph.Clique, p Params, rng *rand.Rand) (*csgtree.Node, evo.Statistics) {
	prims := make([]manifold.Primitive, len(clique))
	for i, idx := range clique {
		prims[i] = g.Vertices[idx].Primitive
	}

	creatorParams := p.CNSCreator
	creatorParams.Primitives = prims
	rankerParams := rankerFor(p, prims)

	k := p.EvoParams.TournamentK
	if k < 1 {
		k = 2
	}

	engine := evo.New[*csgtree.Node](p.EvoParams, rng.Uint64())
	result := engine.Run(
		cns.Creator{Params: creatorParams},
		cns.Ranker{Params: rankerParams},
		evo.TournamentSelector[*csgtree.Node]{K: k},
		evo.IterationStop[*csgtree.Node]{Max: p.EvoParams.MaxIterations},
	)
	return result.Best.Value, result.Statistics
}

func rankFn(params cns.RankerParams) conngraph.Rank {
	rk := cns.Ranker{Params: params}
	return rk.Rank
}

// foldMerge repeatedly merges the pair of remaining trees whose
// serializations share the largest common subgraph, until one tree is
// left. Trees with no shared structure still merge (LCS.Size == 0 just
// means the deterministic rank-based fallback decides outright).
func foldMerge(results []CliqueResult, rank conngraph.Rank) *csgtree.Node {
	trees := make([]*csgtree.Node, 0, len(results))
	for _, r := range results {
		trees = append(trees, r.Tree)
	}
	if len(trees) == 0 {
		return csgtree.Noop(nil)
	}

	for len(trees) > 1 {
		bestI, bestJ, bestSize := 0, 1, -1
		for i := 0; i < len(trees); i++ {
			for j := i + 1; j < len(trees); j++ {
				lcs := conngraph.LargestCommonSubgraph(csgtree.SerializeTree(trees[i]), csgtree.SerializeTree(trees[j]))
				if lcs.Size > bestSize {
					bestSize, bestI, bestJ = lcs.Size, i, j
				}
			}
		}

		lcs := conngraph.LargestCommonSubgraph(csgtree.SerializeTree(trees[bestI]), csgtree.SerializeTree(trees[bestJ]))
		merged, _ := conngraph.Merge(trees[bestI], trees[bestJ], lcs, rank)

		next := make([]*csgtree.Node, 0, len(trees)-1)
		for k, t := range trees {
			if k == bestI || k == bestJ {
				continue
			}
			next = append(next, t)
		}
		next = append(next, merged)
		trees = next
	}
	return trees[0]
}
