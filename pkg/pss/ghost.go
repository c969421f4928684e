package pss

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
)

// GenerateGhostPlanes augments ms with four "ghost" planes per real plane
// manifold: the sides of the minimum-area bounding rectangle of the
// plane's own point cloud, found by projecting to the plane's 2-D frame,
// taking the convex hull, and rotating calipers over its edges.
// The pipeline driver does not call it, and no configuration key enables it.
func GenerateGhostPlanes(ms []manifold.Manifold, distThr, angleThr float64) []manifold.Manifold {
	out := append([]manifold.Manifold{}, ms...)
	for _, m := range ms {
		if m.Kind != manifold.KindPlane || m.PC == nil || m.PC.Len() < 3 {
			continue
		}
		out = append(out, ghostPlanesFor(m)...)
	}
	return FilterClosePlanes(out, distThr, angleThr)
}

func ghostPlanesFor(m manifold.Manifold) []manifold.Manifold {
	u, v := orthonormalBasis2D(m.N)
	pts := make([][2]float64, m.PC.Len())
	for i := 0; i < m.PC.Len(); i++ {
		p, _ := m.PC.At(i)
		rel := r3.Sub(p, m.P)
		pts[i] = [2]float64{r3.Dot(rel, u), r3.Dot(rel, v)}
	}

	hull := convexHull2D(pts)
	if len(hull) < 3 {
		return nil
	}
	rect := minAreaRect(hull)

	var ghosts []manifold.Manifold
	for i := 0; i < 4; i++ {
		a, b := rect[i], rect[(i+1)%4]
		edge := r3.Vec{X: b[0] - a[0], Y: b[1] - a[1]}
		outward2D := r3.Vec{X: edge.Y, Y: -edge.X} // perpendicular to the edge, in-plane
		outward2D = r3.Scale(1/r3.Norm(outward2D), outward2D)

		mid2D := [2]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
		midPoint := r3.Add(m.P, r3.Add(r3.Scale(mid2D[0], u), r3.Scale(mid2D[1], v)))
		outward3D := r3.Add(r3.Scale(outward2D.X, u), r3.Scale(outward2D.Y, v))

		ghosts = append(ghosts, manifold.Plane(midPoint, outward3D, nil))
	}
	return ghosts
}

func orthonormalBasis2D(n r3.Vec) (u, v r3.Vec) {
	ref := r3.Vec{X: 1, Y: 0, Z: 0}
	if math.Abs(n.X) > 0.9 {
		ref = r3.Vec{X: 0, Y: 1, Z: 0}
	}
	u = r3.Cross(n, ref)
	u = r3.Scale(1/r3.Norm(u), u)
	v = r3.Cross(n, u)
	return u, v
}

// convexHull2D returns the convex hull of pts in counter-clockwise order
// via the monotone chain algorithm.
func convexHull2D(pts [][2]float64) [][2]float64 {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([][2]float64{}, pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower, upper [][2]float64
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// minAreaRect finds the minimum-area bounding rectangle of a convex
// polygon via rotating calipers, returning its 4 corners.
func minAreaRect(hull [][2]float64) [4][2]float64 {
	n := len(hull)
	bestArea := math.Inf(1)
	var best [4][2]float64

	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		edge := [2]float64{b[0] - a[0], b[1] - a[1]}
		length := math.Hypot(edge[0], edge[1])
		if length < 1e-12 {
			continue
		}
		ux, uy := edge[0]/length, edge[1]/length
		vx, vy := -uy, ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			rel := [2]float64{p[0] - a[0], p[1] - a[1]}
			pu := rel[0]*ux + rel[1]*uy
			pv := rel[0]*vx + rel[1]*vy
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			corner := func(pu, pv float64) [2]float64 {
				return [2]float64{a[0] + pu*ux + pv*vx, a[1] + pu*uy + pv*vy}
			}
			best = [4][2]float64{
				corner(minU, minV), corner(maxU, minV),
				corner(maxU, maxV), corner(minU, maxV),
			}
		}
	}
	return best
}

// FilterClosePlanes removes plane manifolds that are near-duplicates of
// an earlier one in ms (within distThr of position and angleThr of
// orientation), keeping the first occurrence.
func FilterClosePlanes(ms []manifold.Manifold, distThr, angleThr float64) []manifold.Manifold {
	var out []manifold.Manifold
	for _, m := range ms {
		if m.Kind != manifold.KindPlane {
			out = append(out, m)
			continue
		}
		dup := false
		for _, kept := range out {
			if kept.Kind != manifold.KindPlane {
				continue
			}
			cos := math.Abs(r3.Dot(kept.N, m.N))
			if cos < math.Cos(angleThr) {
				continue
			}
			if math.Abs(r3.Dot(kept.N, r3.Sub(kept.P, m.P))) < distThr {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}
