// Package pointcloud is the dense point-cloud matrix type shared by the
// fitter (external), the rankers (pss, cns) and the area-score rasteriser.
// Points carry a unit surface normal alongside position, matching the
// (x, y, z, nx, ny, nz) row layout the fitter emits.
package pointcloud

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointCloud is a dense set of oriented surface samples. Rows are backed
// by a *mat.Dense so that bulk transforms (frame projection, PCA) can
// reuse gonum's linear algebra rather than hand-rolled loops.
type PointCloud struct {
	data *mat.Dense // n x 6: x,y,z,nx,ny,nz
}

// New builds a PointCloud from rows of (x, y, z, nx, ny, nz). It does not
// validate that normals are unit length; callers that need that guarantee
// should call Normalize.
func New(rows [][6]float64) *PointCloud {
	if len(rows) == 0 {
		return &PointCloud{}
	}
	flat := make([]float64, 0, len(rows)*6)
	for _, r := range rows {
		flat = append(flat, r[0], r[1], r[2], r[3], r[4], r[5])
	}
	return &PointCloud{data: mat.NewDense(len(rows), 6, flat)}
}

// Empty returns an empty point cloud.
func Empty() *PointCloud {
	return &PointCloud{}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	if pc == nil || pc.data == nil {
		return 0
	}
	r, _ := pc.data.Dims()
	return r
}

// At returns the position and unit normal of point i.
func (pc *PointCloud) At(i int) (p, n r3.Vec) {
	row := pc.data.RawRowView(i)
	return r3.Vec{X: row[0], Y: row[1], Z: row[2]}, r3.Vec{X: row[3], Y: row[4], Z: row[5]}
}

// Append returns a new PointCloud with the rows of other appended.
func (pc *PointCloud) Append(other *PointCloud) *PointCloud {
	n := pc.Len() + other.Len()
	out := mat.NewDense(n, 6, nil)
	for i := 0; i < pc.Len(); i++ {
		out.SetRow(i, pc.data.RawRowView(i))
	}
	for i := 0; i < other.Len(); i++ {
		out.SetRow(pc.Len()+i, other.data.RawRowView(i))
	}
	return &PointCloud{data: out}
}

// Normalize returns a copy with every normal rescaled to unit length.
// Degenerate (near-zero) normals are left untouched.
func (pc *PointCloud) Normalize() *PointCloud {
	n := pc.Len()
	out := mat.NewDense(n, 6, nil)
	for i := 0; i < n; i++ {
		row := pc.data.RawRowView(i)
		nv := r3.Vec{X: row[3], Y: row[4], Z: row[5]}
		if l := r3.Norm(nv); l > 1e-12 {
			nv = r3.Scale(1/l, nv)
		}
		out.SetRow(i, []float64{row[0], row[1], row[2], nv.X, nv.Y, nv.Z})
	}
	return &PointCloud{data: out}
}

// Centroid returns the mean position of the cloud.
func (pc *PointCloud) Centroid() r3.Vec {
	n := pc.Len()
	if n == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for i := 0; i < n; i++ {
		p, _ := pc.At(i)
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(n), sum)
}

// ProjectAxisExtent returns the [min, max] scalar projection of every point
// onto the given unit axis, passing through origin. Used to estimate the
// along-axis extent of a cylinder's supporting point cloud when a cap is
// missing.
func (pc *PointCloud) ProjectAxisExtent(origin, axis r3.Vec) (min, max float64) {
	n := pc.Len()
	if n == 0 {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		p, _ := pc.At(i)
		t := r3.Dot(r3.Sub(p, origin), axis)
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	return min, max
}

func (pc *PointCloud) String() string {
	return fmt.Sprintf("PointCloud(%d points)", pc.Len())
}
