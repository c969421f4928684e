package conngraph

import "github.com/chazu/csgevo/pkg/csgtree"

// LCSMatch is the result of comparing two serialized trees: the offsets
// into each serialization where the matching run starts, and its length.
// A zero Size means no common substructure was found.
type LCSMatch struct {
	StartA int
	StartB int
	Size   int
}

// LargestCommonSubgraph finds the longest contiguous run shared between
// two serialized CSG trees (as produced by csgtree.SerializeTree),
// treating the serialization as a linear token sequence and running the
// standard longest-common-substring dynamic program over it.
func LargestCommonSubgraph(sA, sB []string) LCSMatch {
	if len(sA) == 0 || len(sB) == 0 {
		return LCSMatch{}
	}

	prev := make([]int, len(sB)+1)
	curr := make([]int, len(sB)+1)
	best := LCSMatch{}

	for i := 1; i <= len(sA); i++ {
		for j := 1; j <= len(sB); j++ {
			if sA[i-1] == sB[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best.Size {
					best = LCSMatch{StartA: i - curr[j], StartB: j - curr[j], Size: curr[j]}
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return best
}

// MergeResult identifies which of the two inputs (or a freshly built
// replacement) a merge decided on.
type MergeResult int

const (
	MergeFirst MergeResult = iota
	MergeSecond
	MergeCombined
)

// Rank scores a tree for merge preference; callers pass the CNS ranker's
// fitness function, higher is better.
type Rank func(*csgtree.Node) float64

// Merge decides how to fuse two per-clique CSG trees that share the
// common substructure described by lcs. The combined-node replacement
// rule (splicing the matched subtree once and re-attaching the
// non-overlapping remainders) is unspecified by the data model beyond
// "First, Second, or a new combined node"; this implementation takes the
// deterministic fallback of returning whichever input ranks higher,
// which is always well-defined regardless of where the match fell.
func Merge(a, b *csgtree.Node, lcs LCSMatch, rank Rank) (*csgtree.Node, MergeResult) {
	if rank(a) >= rank(b) {
		return a, MergeFirst
	}
	return b, MergeSecond
}
