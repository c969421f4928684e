package pss

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/pointcloud"
	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// CellSize is the rasterisation grid cell edge length used by the
// area-coverage score, a fixed design constant.
const CellSize = 0.04

// RankerParams configures the PSS ranker.
type RankerParams struct {
	PC               *pointcloud.PointCloud
	Manifolds        []manifold.Manifold
	StaticPrimitives []manifold.Primitive
	DistanceEps      float64
	MaxSetSize       int
	AreaWeight       float64 // a
	GeoWeight        float64 // g
	SizeWeight       float64 // s
}

// Ranker implements evo.Ranker[Set]. It tracks the best creature ever
// seen (not just the final population's best) and memoises per-primitive
// area scores behind a mutex.
type Ranker struct {
	Params RankerParams

	mu       sync.Mutex
	areaMemo map[manifold.StructuralHash]areaResult
	best     *Set
	bestRank float64
}

type areaResult struct {
	pointArea   float64
	surfaceArea float64
	ok          bool
}

// NewRanker builds a Ranker with sensible default weights (a=1, g=1, s=0)
// if the caller left them at zero.
func NewRanker(p RankerParams) *Ranker {
	if p.AreaWeight == 0 && p.GeoWeight == 0 && p.SizeWeight == 0 {
		p.AreaWeight, p.GeoWeight, p.SizeWeight = 1, 1, 0
	}
	return &Ranker{Params: p, areaMemo: make(map[manifold.StructuralHash]areaResult), bestRank: math.Inf(-1)}
}

// Rank scores set (with StaticPrimitives implicitly appended) and records
// it as the running best if it improves on the previous best.
func (rk *Ranker) Rank(set Set) float64 {
	if len(set) == 0 && len(rk.Params.StaticPrimitives) == 0 {
		return math.Inf(-1) // ScoreUnavailable
	}

	combined := append(append(Set{}, set...), rk.Params.StaticPrimitives...)

	areaScore := rk.areaScore(set)
	geoScore := rk.geoScore(combined)
	sizeScore := 0.0
	if rk.Params.MaxSetSize > 0 {
		sizeScore = float64(len(set)) / float64(rk.Params.MaxSetSize)
	}

	rank := rk.Params.AreaWeight*areaScore + rk.Params.GeoWeight*geoScore - rk.Params.SizeWeight*sizeScore

	rk.mu.Lock()
	if rank > rk.bestRank {
		rk.bestRank = rank
		best := set.Clone()
		rk.best = &best
	}
	rk.mu.Unlock()

	return rank
}

// Best returns the highest-ranked set seen across the whole run, and its
// rank. ok is false if Rank has never been called.
func (rk *Ranker) Best() (Set, float64, bool) {
	rk.mu.Lock()
	defer rk.mu.Unlock()
	if rk.best == nil {
		return nil, 0, false
	}
	return rk.best.Clone(), rk.bestRank, true
}

// areaScore computes the area-coverage score for the box primitives in
// set, memoised per-primitive by structural hash.
func (rk *Ranker) areaScore(set Set) float64 {
	var pointArea, surfaceArea float64
	for _, p := range set {
		if p.Kind != manifold.KindBox {
			continue
		}
		res := rk.areaForPrimitive(p)
		if !res.ok {
			continue
		}
		pointArea += res.pointArea
		surfaceArea += res.surfaceArea
	}
	if surfaceArea == 0 {
		return 0
	}
	return pointArea / surfaceArea
}

func (rk *Ranker) areaForPrimitive(p manifold.Primitive) areaResult {
	h := manifold.Hash(p, 1e-6)

	rk.mu.Lock()
	if res, ok := rk.areaMemo[h]; ok {
		rk.mu.Unlock()
		return res
	}
	rk.mu.Unlock()

	res := computeBoxAreaScore(p)

	rk.mu.Lock()
	rk.areaMemo[h] = res
	rk.mu.Unlock()

	return res
}

// computeBoxAreaScore builds the box's polytope mesh, and for each
// triangle finds its defining plane and that plane's point cloud, then
// rasterises the in-triangle points on a CellSize grid — aligned to the
// triangle's own most-orthogonal pair of edges, not the shared face
// basis — to estimate witnessed area.
func computeBoxAreaScore(p manifold.Primitive) areaResult {
	faces := make([]sdfkernel.HalfSpace, len(p.MS))
	for i, m := range p.MS {
		faces[i] = sdfkernel.HalfSpace{P: m.P, N: m.N}
	}
	meshFaces, ok := sdfkernel.PolytopeMesh(faces)
	if !ok {
		return areaResult{}
	}
	if _, ok := sdfkernel.Triangulate(meshFaces); !ok {
		return areaResult{} // not the 12 triangles of a box: skip this primitive
	}

	var pointArea, surfaceArea float64
	for _, face := range meshFaces {
		if face.FaceIndex >= len(p.MS) {
			continue
		}
		plane := p.MS[face.FaceIndex]

		for i := 1; i+1 < len(face.Vertices); i++ {
			tri3D := [3]r3.Vec{face.Vertices[0], face.Vertices[i], face.Vertices[i+1]}
			origin, u, v := triangleFrame(tri3D)
			tri := [3][2]float64{
				project2D(tri3D[0], origin, u, v),
				project2D(tri3D[1], origin, u, v),
				project2D(tri3D[2], origin, u, v),
			}
			triArea := polygonArea([][2]float64{tri[0], tri[1], tri[2]})
			surfaceArea += triArea

			var covered float64
			if plane.PC != nil && plane.PC.Len() > 0 {
				covered = rasterCoverage(plane.PC, origin, u, v, tri)
			}
			if covered > triArea {
				covered = triArea
			}
			pointArea += covered
		}
	}
	return areaResult{pointArea: pointArea, surfaceArea: surfaceArea, ok: true}
}

// triangleFrame picks the rasterisation frame for a single triangle: the
// origin is the corner shared by its most nearly orthogonal pair of edges
// (smallest absolute dot product between their unit directions), and the
// axes are those two edges' unit directions. For a box face's two
// right-triangle halves this lands exactly on the face's own rectangle
// corner and axes.
func triangleFrame(tri [3]r3.Vec) (origin, u, v r3.Vec) {
	bestDot := math.Inf(1)
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		eu, ev := r3.Sub(tri[j], tri[i]), r3.Sub(tri[k], tri[i])
		lu, lv := r3.Norm(eu), r3.Norm(ev)
		if lu < 1e-12 || lv < 1e-12 {
			continue
		}
		nu, nv := r3.Scale(1/lu, eu), r3.Scale(1/lv, ev)
		if d := math.Abs(r3.Dot(nu, nv)); d < bestDot {
			bestDot, origin, u, v = d, tri[i], nu, nv
		}
	}
	return origin, u, v
}

func project2D(p, origin, u, v r3.Vec) [2]float64 {
	rel := r3.Sub(p, origin)
	return [2]float64{r3.Dot(rel, u), r3.Dot(rel, v)}
}

func polygonArea(poly [][2]float64) float64 {
	var sum float64
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i][0]*poly[j][1] - poly[j][0]*poly[i][1]
	}
	return math.Abs(sum) / 2
}

// rasterCoverage rasterises the point cloud's projected, in-triangle
// points on a CellSize grid aligned with the given (u, v) frame and
// returns the occupied-cell count times cell area.
func rasterCoverage(pc *pointcloud.PointCloud, origin, u, v r3.Vec, tri [3][2]float64) float64 {
	occupied := make(map[[2]int]bool)
	for i := 0; i < pc.Len(); i++ {
		p, _ := pc.At(i)
		pt := project2D(p, origin, u, v)
		if !pointInTriangle(pt, tri) {
			continue
		}
		cell := [2]int{int(math.Floor(pt[0] / CellSize)), int(math.Floor(pt[1] / CellSize))}
		occupied[cell] = true
	}
	return float64(len(occupied)) * CellSize * CellSize
}

func pointInTriangle(pt [2]float64, tri [3][2]float64) bool {
	sign := func(a, b, c [2]float64) float64 {
		return (a[0]-c[0])*(b[1]-c[1]) - (b[0]-c[0])*(a[1]-c[1])
	}
	d1 := sign(pt, tri[0], tri[1])
	d2 := sign(pt, tri[1], tri[2])
	d3 := sign(pt, tri[2], tri[0])
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// geoScore measures, for every point in the ranker's source point cloud,
// whether the nearest primitive's signed distance is within DistanceEps
// and its surface normal aligns with the point's normal.
func (rk *Ranker) geoScore(combined Set) float64 {
	pc := rk.Params.PC
	if pc == nil || pc.Len() == 0 || len(combined) == 0 {
		return 0
	}
	var valid int
	for i := 0; i < pc.Len(); i++ {
		x, nu := pc.At(i)
		best := math.Inf(1)
		var bestGrad r3.Vec
		for _, p := range combined {
			if !p.Valid() {
				continue
			}
			d, g := p.Implicit.SignedDistanceAndGradient(x)
			if math.Abs(d) < math.Abs(best) {
				best = d
				bestGrad = g
			}
		}
		if math.Abs(best) < rk.Params.DistanceEps && r3.Dot(nu, bestGrad) > 0.9 {
			valid++
		}
	}
	return float64(valid) / float64(pc.Len())
}
