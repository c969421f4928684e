package cns

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

// RankerParams configures the CNS ranker.
type RankerParams struct {
	PC          *pointcloud.PointCloud
	DistanceEps float64 // epsilon on |signed distance|
	AngleEps    float64 // radians allowed between sample normal and surface gradient
	SizePenalty float64 // lambda; 0 disables the size term
}

// Ranker implements evo.Ranker[*csgtree.Node]. Rank is
// geometry_score(node) - lambda*num_nodes(node), where geometry_score is
// the fraction of sample points whose signed distance against the whole
// tree is within DistanceEps and whose gradient aligns with the sample's
// recorded normal within AngleEps.
type Ranker struct {
	Params RankerParams
}

// SizePenalty returns lambda = ln(sum of |pc_i|) for a set of per-primitive
// point-cloud sizes, the spec's prescribed size-penalty coefficient.
func SizePenalty(pointCounts []int) float64 {
	var total int
	for _, n := range pointCounts {
		total += n
	}
	if total <= 1 {
		return 0
	}
	return math.Log(float64(total))
}

func (rk Ranker) Rank(n *csgtree.Node) float64 {
	return rk.GeometryScore(n) - rk.Params.SizePenalty*float64(n.NumNodes())
}

// GeometryScore is the fraction of sample points in Params.PC that lie
// within DistanceEps of the tree's surface with a correctly-aligned
// gradient.
func (rk Ranker) GeometryScore(n *csgtree.Node) float64 {
	pc := rk.Params.PC
	if pc == nil || pc.Len() == 0 {
		return 0
	}
	impl := n.Implicit()
	cosThresh := math.Cos(rk.Params.AngleEps)

	var valid int
	for i := 0; i < pc.Len(); i++ {
		x, nu := pc.At(i)
		d, g := impl.SignedDistanceAndGradient(x)
		if math.Abs(d) < rk.Params.DistanceEps && r3.Dot(nu, g) > cosThresh {
			valid++
		}
	}
	return float64(valid) / float64(pc.Len())
}
