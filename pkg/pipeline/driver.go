// Package pipeline is the driver (C8): it wires together load, dedup,
// binarise, optional redundancy removal, optional decomposition, the
// GA optimiser, a second optional redundancy pass, and emission, matching
// spec.md's load -> dedup_primitives_by_name -> binarise ->
// (optional) remove_redundancies -> (optional) decompose -> optimise ->
// (optional) remove_redundancies -> emit pipeline. It also carries the
// point-cloud-and-manifolds entry point that runs PSS first, for inputs
// that start one level upstream of a pre-built tree.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/evo"
	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/orchestrator"
	"github.com/chazu/csgevo/pkg/pointcloud"
	"github.com/chazu/csgevo/pkg/pss"
)

// Result is everything a driver run produces, ready for the caller to
// write out. Stages/Durations line up by index and feed WriteTimings.
type Result struct {
	Tree      *csgtree.Node
	Cliques   []orchestrator.CliqueResult
	Stages    []string
	Durations []time.Duration
}

func (r *Result) track(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Stages = append(r.Stages, name)
	r.Durations = append(r.Durations, time.Since(start))
	return err
}

// Run executes the full driver pipeline against a pre-built tree read
// from r, using pc as the sample-point source for the CNS ranker's
// geometry score; decomposition does not read pc. This is the direct
// "optimiser path" control-flow branch: no PSS involved since the input
// already names explicit geometry.
func Run(cfg Config, r io.Reader, pc *pointcloud.PointCloud) (Result, error) {
	var result Result
	var tree *csgtree.Node

	err := result.track("decode", func() error {
		var w WireNode
		if err := json.NewDecoder(r).Decode(&w); err != nil {
			return fmt.Errorf("%w: %v", ErrInputInvalid, err)
		}
		w = DedupPrimitivesByName(w)

		raw, err := decodeNode(w)
		if err != nil {
			return err
		}
		tree, err = csgtree.Binarize(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInputInvalid, err)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	return runOptimiseStage(cfg, tree, pc, result)
}

// RunFromManifolds runs the PSS search over the manifold set and point
// cloud read from r to obtain an initial primitive set, then feeds the
// set's denoted tree through the same decompose -> optimise -> redundancy
// pipeline Run uses. This is the driver's other control-flow branch:
// "the driver calls PSS ... when starting from a point cloud + manifolds".
func RunFromManifolds(cfg Config, r io.Reader) (Result, error) {
	var result Result
	var manifolds []manifold.Manifold
	var pc *pointcloud.PointCloud
	var tree *csgtree.Node

	err := result.track("decode", func() error {
		var err error
		manifolds, pc, err = DecodeManifoldSet(r)
		return err
	})
	if err != nil {
		return result, err
	}

	err = result.track("pss", func() error {
		best, _, err := runPSS(cfg, manifolds, pc)
		if err != nil {
			return err
		}
		if len(best) == 0 {
			return fmt.Errorf("%w: PSS produced no primitives", ErrInputInvalid)
		}
		tree = best.Tree()
		return nil
	})
	if err != nil {
		return result, err
	}

	return runOptimiseStage(cfg, tree, pc, result)
}

// runPSS configures and runs the PSS creator/ranker through the generic
// evolutionary engine, returning the best primitive set ever seen (not
// just the final population's best, since caching can let a strong early
// creature fall out of the tracked population).
func runPSS(cfg Config, manifolds []manifold.Manifold, pc *pointcloud.PointCloud) (pss.Set, evo.Statistics, error) {
	creator := pss.Creator{Params: pss.Params{
		Manifolds:                manifolds,
		IntraCrossProb:           cfg.PSS.IntraCrossProb,
		MutationDistribution:     pss.DefaultMutationDistribution(),
		MaxMutationIters:         orDefault(cfg.PSS.MaxMutationIters, 1),
		MaxCrossoverIters:        orDefault(cfg.PSS.MaxCrossoverIters, 1),
		MaxSetSize:               orDefault(cfg.PSS.MaxSetSize, 1),
		AngleEps:                 cfg.PSS.AngleEps,
		MinParallelPlaneDistance: cfg.PSS.MinParallelPlaneDistance,
	}}
	ranker := pss.NewRanker(pss.RankerParams{
		PC:          pc,
		Manifolds:   manifolds,
		DistanceEps: cfg.PSS.DistanceEps,
		MaxSetSize:  cfg.PSS.MaxSetSize,
		AreaWeight:  cfg.PSS.AreaWeight,
		GeoWeight:   cfg.PSS.GeoWeight,
		SizeWeight:  cfg.PSS.SizeWeight,
	})

	k := cfg.GA.TournamentK
	if k < 1 {
		k = 2
	}
	engine := evo.New[pss.Set](evo.Params{
		PopulationSize: cfg.GA.PopulationSize,
		NumBestParents: cfg.GA.NumBestParents,
		MutationRate:   cfg.GA.MutationRate,
		CrossoverRate:  cfg.GA.CrossoverRate,
		InParallel:     cfg.GA.InParallel,
		UseCaching:     cfg.GA.UseCaching,
		MaxIterations:  cfg.GA.MaxIterations,
		MaxCount:       cfg.GA.MaxCount,
		Delta:          cfg.GA.Delta,
		TournamentK:    k,
	}, cfg.Pipeline.Seed)

	result := engine.Run(
		creator,
		ranker,
		evo.TournamentSelector[pss.Set]{K: k},
		evo.IterationStop[pss.Set]{Max: cfg.GA.MaxIterations},
	)

	if best, _, ok := ranker.Best(); ok {
		return best, result.Statistics, nil
	}
	return result.Best.Value, result.Statistics, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// runOptimiseStage is the shared tail both entry points run once they
// have a tree: optional redundancy removal, decompose+optimise via the
// configured Optimizer, a second optional redundancy pass, and the
// Noop-result check.
func runOptimiseStage(cfg Config, tree *csgtree.Node, pc *pointcloud.PointCloud, result Result) (Result, error) {
	if cfg.Pipeline.UseRedundancyRemoval {
		_ = result.track("remove_redundancies_1", func() error {
			tree = RemoveRedundancies(tree)
			return nil
		})
	}

	var primitives []manifold.Primitive
	var optimised *csgtree.Node
	var cliques []orchestrator.CliqueResult

	err := result.track("optimise", func() error {
		primitives = primitivesOf(tree)

		opt, err := ResolveOptimizer(cfg.Pipeline.Optimizer, cfg.GA, pc)
		if err != nil {
			return err
		}
		if ga, ok := opt.(GAOptimizer); ok && !cfg.Pipeline.UseDecomposition {
			ga.alwaysConnected = true
			opt = ga
		}

		optimised, cliques, err = opt.Optimize(tree, primitives)
		return err
	})
	if err != nil {
		return result, err
	}

	if cfg.Pipeline.UseRedundancyRemoval {
		_ = result.track("remove_redundancies_2", func() error {
			optimised = RemoveRedundancies(optimised)
			return nil
		})
	}

	result.Tree, result.Cliques = optimised, cliques

	if optimised == nil || optimised.Op == csgtree.OpNoop && optimised.Left == nil {
		return result, ErrResultIsNoop
	}
	return result, nil
}

func primitivesOf(n *csgtree.Node) []manifold.Primitive {
	leaves := n.Geometries()
	out := make([]manifold.Primitive, 0, len(leaves))
	for _, leaf := range leaves {
		if leaf.Primitive.Valid() {
			out = append(out, leaf.Primitive)
		}
	}
	return out
}
