package conngraph

import "sort"

// Clique is a maximal set of mutually-adjacent vertex indices.
type Clique []int

// EnumerateCliques returns every maximal clique in g via Bron-Kerbosch
// with pivoting. Results are sorted (ascending within each clique, and
// cliques ordered by size then lexicographically) for determinism across
// runs, since map/slice iteration order elsewhere in the search is not
// guaranteed stable.
func EnumerateCliques(g *Graph) []Clique {
	n := g.N()
	if n == 0 {
		return nil
	}
	all := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		all[i] = true
	}

	var cliques []Clique
	bronKerbosch(g, map[int]bool{}, all, map[int]bool{}, &cliques)

	for _, c := range cliques {
		sort.Ints(c)
	}
	sort.Slice(cliques, func(i, j int) bool {
		if len(cliques[i]) != len(cliques[j]) {
			return len(cliques[i]) < len(cliques[j])
		}
		for k := range cliques[i] {
			if cliques[i][k] != cliques[j][k] {
				return cliques[i][k] < cliques[j][k]
			}
		}
		return false
	})
	return cliques
}

func bronKerbosch(g *Graph, r, p, x map[int]bool, out *[]Clique) {
	if len(p) == 0 && len(x) == 0 {
		clique := make(Clique, 0, len(r))
		for v := range r {
			clique = append(clique, v)
		}
		*out = append(*out, clique)
		return
	}

	pivot := choosePivot(g, p, x)
	candidates := make([]int, 0, len(p))
	for v := range p {
		if !g.Connected(pivot, v) {
			candidates = append(candidates, v)
		}
	}

	for _, v := range candidates {
		rNext := copySet(r)
		rNext[v] = true

		pNext := map[int]bool{}
		xNext := map[int]bool{}
		for u := range p {
			if g.Connected(v, u) {
				pNext[u] = true
			}
		}
		for u := range x {
			if g.Connected(v, u) {
				xNext[u] = true
			}
		}

		bronKerbosch(g, rNext, pNext, xNext, out)

		delete(p, v)
		x[v] = true
	}
}

// choosePivot picks the vertex in p∪x with the most neighbors in p, the
// standard Tomita pivoting heuristic.
func choosePivot(g *Graph, p, x map[int]bool) int {
	best, bestCount := -1, -1
	for v := range p {
		count := 0
		for u := range p {
			if g.Connected(v, u) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = v, count
		}
	}
	for v := range x {
		count := 0
		for u := range p {
			if g.Connected(v, u) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = v, count
		}
	}
	return best
}

func copySet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
