package pipeline

import (
	"fmt"

	"github.com/chazu/csgevo/pkg/cns"
	"github.com/chazu/csgevo/pkg/conngraph"
	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/evo"
	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/orchestrator"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

// Optimizer is the uniform interface the driver calls after binarisation.
// Only the GA path is implemented; the Sampling.* family named in the
// configuration table are external collaborators this module never runs.
type Optimizer interface {
	Optimize(node *csgtree.Node, primitives []manifold.Primitive) (*csgtree.Node, []orchestrator.CliqueResult, error)
}

// ResolveOptimizer looks up an Optimizer by its configuration name.
func ResolveOptimizer(name string, ga GAConfig, pc *pointcloud.PointCloud) (Optimizer, error) {
	if name != "GA" {
		return nil, fmt.Errorf("%w: %q", ErrOptimizerUnknown, name)
	}
	return GAOptimizer{GA: ga, PC: pc}, nil
}

// GAOptimizer runs the clique orchestrator (CNS search per clique, merged
// across cliques) as the driver's "optimise" step.
type GAOptimizer struct {
	GA GAConfig
	PC *pointcloud.PointCloud

	// alwaysConnected disables the connection graph's AABB-overlap test
	// (forcing one all-primitives clique) when the driver's decomposition
	// stage is turned off.
	alwaysConnected bool
}

func (o GAOptimizer) Optimize(_ *csgtree.Node, primitives []manifold.Primitive) (*csgtree.Node, []orchestrator.CliqueResult, error) {
	var pred conngraph.AdjacencyPred
	if o.alwaysConnected {
		pred = func(manifold.Primitive, manifold.Primitive) bool { return true }
	}

	params := orchestrator.Params{
		AdjacencyPred: pred,
		CNSCreator: cns.Params{
			CreateNewProb: o.GA.Creator.CreateNewRandomProb,
			SubtreeProb:   o.GA.Creator.SubtreeProb,
			MaxDepth:      3,
		},
		CNSRanker: cns.RankerParams{
			PC:          o.PC,
			DistanceEps: o.GA.Ranker.PositionTolerance,
			AngleEps:    0.2,
		},
		SizeWeight: o.GA.Ranker.SizeScoreWeight,
		EvoParams: evo.Params{
			PopulationSize: o.GA.PopulationSize,
			NumBestParents: o.GA.NumBestParents,
			MutationRate:   o.GA.MutationRate,
			CrossoverRate:  o.GA.CrossoverRate,
			InParallel:     o.GA.InParallel,
			UseCaching:     o.GA.UseCaching,
			MaxIterations:  o.GA.MaxIterations,
			MaxCount:       o.GA.MaxCount,
			Delta:          o.GA.Delta,
			TournamentK:    o.GA.TournamentK,
		},
	}
	root, results := orchestrator.Run(primitives, params)
	return root, results, nil
}
