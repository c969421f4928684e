package sdfkernel

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// bigCubeExtent is the half-size of the bounding cube clipped against the
// polytope's half-spaces to derive its surface. It must be larger than any
// primitive this kernel is expected to evaluate.
const bigCubeExtent = 1e4

// PolytopeFace is one clipped, planar, convex polygon of a polytope's
// surface, together with the index of the defining half-space it lies on.
type PolytopeFace struct {
	FaceIndex int
	Vertices  []r3.Vec // planar, convex, CCW when viewed from outside
}

// PolytopeMesh clips a large bounding cube against every half-space in
// faces and returns the resulting convex faces. A well-formed box (three
// mutually perpendicular parallel pairs) yields exactly 6 quadrilateral
// faces; any other count indicates degeneracy (MeshGenerationFailed) and
// callers must reject the primitive for area scoring.
func PolytopeMesh(faces []HalfSpace) ([]PolytopeFace, bool) {
	var result []PolytopeFace
	for ownerIdx, hs := range faces {
		// The polytope face lying on half-space hs is the big-cube face
		// coplanar with it, clipped by every *other* half-space.
		poly := cubeFaceOnPlane(hs)
		for j, other := range faces {
			if j == ownerIdx {
				continue
			}
			poly = clipPolygon(poly, other)
			if len(poly) == 0 {
				break
			}
		}
		if len(poly) >= 3 {
			result = append(result, PolytopeFace{FaceIndex: ownerIdx, Vertices: poly})
		}
	}
	return result, len(result) > 0
}

// Triangulate fan-triangulates every face in mesh and returns a flat
// triangle list. A degenerate mesh (not exactly 12 triangles for a
// 6-plane box) is reported via ok=false so the caller can skip the area
// score for that primitive (MeshGenerationFailed).
func Triangulate(faces []PolytopeFace) (tris [][3]r3.Vec, ok bool) {
	for _, f := range faces {
		for i := 1; i+1 < len(f.Vertices); i++ {
			tris = append(tris, [3]r3.Vec{f.Vertices[0], f.Vertices[i], f.Vertices[i+1]})
		}
	}
	return tris, len(tris) == 12
}

// cubeClipVertices returns the union of vertices of the clipped polytope
// faces, used only to derive a bounding box.
func cubeClipVertices(faces []HalfSpace) ([]r3.Vec, bool) {
	meshFaces, ok := PolytopeMesh(faces)
	if !ok {
		return nil, false
	}
	var verts []r3.Vec
	for _, f := range meshFaces {
		verts = append(verts, f.Vertices...)
	}
	return verts, true
}

// cubeFaceOnPlane returns the bounding-cube face coplanar with half-space
// hs: a square of side 2*bigCubeExtent centred on hs.P, in the plane
// orthogonal to hs.N.
func cubeFaceOnPlane(hs HalfSpace) []r3.Vec {
	u, v := orthonormalBasis(hs.N)
	s := bigCubeExtent
	c := hs.P
	return []r3.Vec{
		r3.Add(c, r3.Add(r3.Scale(-s, u), r3.Scale(-s, v))),
		r3.Add(c, r3.Add(r3.Scale(s, u), r3.Scale(-s, v))),
		r3.Add(c, r3.Add(r3.Scale(s, u), r3.Scale(s, v))),
		r3.Add(c, r3.Add(r3.Scale(-s, u), r3.Scale(s, v))),
	}
}

// orthonormalBasis returns two unit vectors spanning the plane orthogonal
// to n (which must be unit length).
func orthonormalBasis(n r3.Vec) (u, v r3.Vec) {
	return OrthonormalBasis(n)
}

// OrthonormalBasis returns two unit vectors spanning the plane orthogonal
// to n (which must be unit length). Exported for callers outside this
// package that need a frame orthogonal to an axis, such as the pipeline's
// cylinder transform encoding.
func OrthonormalBasis(n r3.Vec) (u, v r3.Vec) {
	ref := r3.Vec{X: 1, Y: 0, Z: 0}
	if absf(n.X) > 0.9 {
		ref = r3.Vec{X: 0, Y: 1, Z: 0}
	}
	u = r3.Cross(n, ref)
	u = r3.Scale(1/r3.Norm(u), u)
	v = r3.Cross(n, u)
	return u, v
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// clipPolygon clips the convex polygon poly (assumed planar) against the
// half-space hs via Sutherland-Hodgman, keeping the side where
// n·(x-p) <= 0.
func clipPolygon(poly []r3.Vec, hs HalfSpace) []r3.Vec {
	if len(poly) == 0 {
		return nil
	}
	var out []r3.Vec
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn := r3.Dot(hs.N, r3.Sub(cur, hs.P)) <= 1e-9
		prevIn := r3.Dot(hs.N, r3.Sub(prev, hs.P)) <= 1e-9
		if curIn != prevIn {
			out = append(out, segmentPlaneIntersection(prev, cur, hs))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

func segmentPlaneIntersection(a, b r3.Vec, hs HalfSpace) r3.Vec {
	da := r3.Dot(hs.N, r3.Sub(a, hs.P))
	db := r3.Dot(hs.N, r3.Sub(b, hs.P))
	t := da / (da - db)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
