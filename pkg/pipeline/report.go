package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/evo"
)

// WriteStatistics writes one CSV row per generation: generation, best
// fitness, mean fitness, and the population-best tree's structural hash
// (so two runs producing the same winning shape are visibly identical
// even if the surrounding population differs).
func WriteStatistics(w io.Writer, stats evo.Statistics, popBest *csgtree.Node) error {
	hash := uint64(0)
	if popBest != nil {
		hash = popBest.Hash()
	}
	for i := 0; i < stats.Generations; i++ {
		best := safeAt(stats.BestFitness, i)
		mean := safeAt(stats.MeanFitness, i)
		if _, err := fmt.Fprintf(w, "%d,%g,%g,%d\n", i, best, mean, hash); err != nil {
			return err
		}
	}
	return nil
}

func safeAt(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return 0
	}
	return xs[i]
}

// WriteTimings writes one "stage,duration_ms" row per entry in order.
func WriteTimings(w io.Writer, stages []string, durations []time.Duration) error {
	for i, name := range stages {
		d := time.Duration(0)
		if i < len(durations) {
			d = durations[i]
		}
		if _, err := fmt.Fprintf(w, "%s,%d\n", name, d.Milliseconds()); err != nil {
			return err
		}
	}
	return nil
}

// WriteDOT renders n as a Graphviz DOT digraph. No DOT-writing library
// appears anywhere in the retrieval pack, so this is a direct fmt/strings
// text writer.
func WriteDOT(w io.Writer, n *csgtree.Node) error {
	if _, err := fmt.Fprintln(w, "digraph csg {"); err != nil {
		return err
	}
	counter := 0
	if err := writeDOTNode(w, n, &counter); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func writeDOTNode(w io.Writer, n *csgtree.Node, counter *int) (err error) {
	if n == nil {
		return nil
	}
	id := *counter
	*counter++

	label := n.Op.String()
	if n.Op == csgtree.OpGeometry {
		label = fmt.Sprintf("%s:%s", n.Primitive.Kind, n.Primitive.ID)
	}
	if _, err = fmt.Fprintf(w, "  n%d [label=%q];\n", id, label); err != nil {
		return err
	}

	for _, child := range []*csgtree.Node{n.Left, n.Right} {
		if child == nil {
			continue
		}
		childID := *counter
		if err = writeDOTNode(w, child, counter); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "  n%d -> n%d;\n", id, childID); err != nil {
			return err
		}
	}
	return nil
}
