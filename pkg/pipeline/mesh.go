package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/mesh"
	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// SaveMeshes tessellates every primitive leaf of n with sdfx's marching
// cubes renderer and writes one OBJ file per leaf into dir, matching the
// driver's SaveMeshes config key. It never runs when n has no geometry
// leaves (an all-Noop result): callers should check that first.
func SaveMeshes(n *csgtree.Node, dir, base string, cells int) ([]*mesh.Mesh, error) {
	leaves := n.Geometries()
	meshes := make([]*mesh.Mesh, 0, len(leaves))

	for i, leaf := range leaves {
		if !leaf.Primitive.Valid() {
			continue
		}
		tris := sdfkernel.RenderTriangles(leaf.Primitive.Implicit, cells)
		m := trianglesToMesh(tris, fmt.Sprintf("%s-%d-%s", base, i, leaf.Primitive.ID))

		path := filepath.Join(dir, fmt.Sprintf("%s.obj", m.PartName))
		if err := render.SaveOBJ(path, tris); err != nil {
			return meshes, fmt.Errorf("pipeline: writing %s: %w", path, err)
		}

		meshes = append(meshes, m)
	}
	return meshes, nil
}

func trianglesToMesh(tris []*sdf.Triangle3, partName string) *mesh.Mesh {
	vertices := make([]float32, 0, len(tris)*9)
	normals := make([]float32, 0, len(tris)*9)
	indices := make([]uint32, 0, len(tris)*3)

	for i, tri := range tris {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &mesh.Mesh{Vertices: vertices, Normals: normals, Indices: indices, PartName: partName}
}
