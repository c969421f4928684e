package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

// WireManifold is one fitted surface in a manifold-set input file: the
// same {kind, p, n, r} shape manifold.Manifold carries, plus that
// manifold's own supporting samples, used by the PSS area-coverage score.
type WireManifold struct {
	Kind   string       `json:"kind"`
	P      [3]float64   `json:"p"`
	N      [3]float64   `json:"n,omitempty"`
	R      float64      `json:"r,omitempty"`
	Points [][6]float64 `json:"points,omitempty"`
}

// WireManifoldSet is the input file named by the driver's Manifolds
// config key: the fitted manifolds PSS assembles into primitives, plus
// the full source point cloud the PSS and CNS rankers score sets against.
type WireManifoldSet struct {
	Manifolds []WireManifold `json:"manifolds"`
	Points    [][6]float64   `json:"points"`
}

// DecodeManifoldSet parses r into the fitted manifolds plus the point
// cloud they were extracted from — the driver's point-cloud-and-manifolds
// ingestion path into PSS, as opposed to DecodeTree's pre-built-tree path.
func DecodeManifoldSet(r io.Reader) ([]manifold.Manifold, *pointcloud.PointCloud, error) {
	var w WireManifoldSet
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}

	out := make([]manifold.Manifold, 0, len(w.Manifolds))
	for _, wm := range w.Manifolds {
		m, err := buildManifold(wm)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
		}
		out = append(out, m)
	}

	return out, pointcloud.New(w.Points), nil
}

func buildManifold(wm WireManifold) (manifold.Manifold, error) {
	p := r3.Vec{X: wm.P[0], Y: wm.P[1], Z: wm.P[2]}
	n := r3.Vec{X: wm.N[0], Y: wm.N[1], Z: wm.N[2]}
	var pc *pointcloud.PointCloud
	if len(wm.Points) > 0 {
		pc = pointcloud.New(wm.Points)
	}

	switch wm.Kind {
	case "plane":
		return manifold.Plane(p, n, pc), nil
	case "cylinder":
		return manifold.Cylinder(p, n, wm.R, pc), nil
	case "sphere":
		return manifold.Sphere(p, wm.R, pc), nil
	default:
		return manifold.Manifold{}, fmt.Errorf("unknown manifold kind %q", wm.Kind)
	}
}
