// Package conngraph is the undirected adjacency graph over primitives used
// to prune the CSG-node search's scope early: edges encode "may touch / may
// be combined," and cliques of the graph become the search's per-clique
// scopes.
package conngraph

import (
	"github.com/chazu/csgevo/pkg/manifold"
)

// Vertex is a primitive handle participating in the graph.
type Vertex struct {
	Index     int
	Primitive manifold.Primitive
}

// Graph is an undirected adjacency-list graph over primitive vertices.
type Graph struct {
	Vertices []Vertex
	adj      [][]bool
}

// AdjacencyPred decides whether two primitives should be connected.
type AdjacencyPred func(a, b manifold.Primitive) bool

// AABBOverlap is the default adjacency predicate: two primitives are
// connected if their implicit functions' axis-aligned bounding boxes
// intersect.
func AABBOverlap(a, b manifold.Primitive) bool {
	aMin, aMax := a.Implicit.AABB()
	bMin, bMax := b.Implicit.AABB()
	return aMin.X <= bMax.X && bMin.X <= aMax.X &&
		aMin.Y <= bMax.Y && bMin.Y <= aMax.Y &&
		aMin.Z <= bMax.Z && bMin.Z <= aMax.Z
}

// Build constructs a Graph over primitives, testing every unordered pair
// with pred — O(n²) edge checks, matching the scale the search operates at.
func Build(primitives []manifold.Primitive, pred AdjacencyPred) *Graph {
	n := len(primitives)
	g := &Graph{
		Vertices: make([]Vertex, n),
		adj:      make([][]bool, n),
	}
	for i := range primitives {
		g.Vertices[i] = Vertex{Index: i, Primitive: primitives[i]}
		g.adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if pred(primitives[i], primitives[j]) {
				g.adj[i][j] = true
				g.adj[j][i] = true
			}
		}
	}
	return g
}

// Connected reports whether vertices i and j are adjacent.
func (g *Graph) Connected(i, j int) bool {
	if i == j {
		return false
	}
	return g.adj[i][j]
}

// Neighbors returns the indices adjacent to vertex i.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for j, ok := range g.adj[i] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

// N returns the number of vertices in the graph.
func (g *Graph) N() int { return len(g.Vertices) }
