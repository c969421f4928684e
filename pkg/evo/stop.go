package evo

// IterationStop halts after a fixed number of generations, as a Stop
// implementation usable independently of Params.MaxIterations (which the
// engine also enforces directly).
type IterationStop[T any] struct {
	Max int
}

func (s IterationStop[T]) Done(generation int, best Candidate[T], history []float64) bool {
	return generation+1 >= s.Max
}

// NoFitnessIncreaseStop halts once the best-fitness history has gone
// Patience generations without an improvement larger than Delta, but
// never before generation MinIterations (0 leaves the run otherwise
// unconstrained).
type NoFitnessIncreaseStop[T any] struct {
	Patience      int
	Delta         float64
	MinIterations int
}

func (s NoFitnessIncreaseStop[T]) Done(generation int, best Candidate[T], history []float64) bool {
	if generation < s.MinIterations {
		return false
	}
	if len(history) <= s.Patience {
		return false
	}
	window := history[len(history)-s.Patience-1:]
	base := window[0]
	for _, f := range window[1:] {
		if f-base > s.Delta {
			return false
		}
	}
	return true
}
