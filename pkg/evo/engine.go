package evo

import (
	"math/rand/v2"
	"sort"
	"sync"
)

// Engine runs a single evolutionary search configured by Params, with its
// own random source so that two engines with the same seed produce
// identical sequences when InParallel is false.
type Engine[T any] struct {
	Params Params
	rng    *rand.Rand
	cache  *fitnessCache
}

// New builds an Engine seeded deterministically from seed.
func New[T any](params Params, seed uint64) *Engine[T] {
	e := &Engine[T]{
		Params: params,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	if params.UseCaching {
		e.cache = newFitnessCache()
	}
	return e
}

// Run executes the search to completion (no cancellation) and returns the
// final population, best creature and accumulated statistics.
func (e *Engine[T]) Run(creator Creator[T], ranker Ranker[T], selector Selector[T], stop Stop[T]) Result[T] {
	return e.run(creator, ranker, selector, stop, nil)
}

// run is Run's implementation, plus an optional cancelled poll checked
// between generations (never within one) so RunAsync's Handle.Cancel can
// stop a search early without a hard per-generation deadline.
func (e *Engine[T]) run(creator Creator[T], ranker Ranker[T], selector Selector[T], stop Stop[T], cancelled func() bool) Result[T] {
	pop := e.initialPopulation(creator)
	ranked := e.rankPopulation(pop, ranker)

	var stats Statistics
	var history []float64

	for gen := 0; ; gen++ {
		sortDescending(ranked)
		best := ranked[0]
		history = append(history, best.Fitness)
		stats.Generations = gen + 1
		stats.BestFitness = append(stats.BestFitness, best.Fitness)
		stats.MeanFitness = append(stats.MeanFitness, mean(ranked))
		stats.Evaluations += len(ranked)

		if stop.Done(gen, best, history) {
			break
		}
		if e.Params.MaxIterations > 0 && gen+1 >= e.Params.MaxIterations {
			break
		}
		if e.Params.MaxCount > 0 && stats.Evaluations >= e.Params.MaxCount {
			break
		}
		if cancelled != nil && cancelled() {
			break
		}

		ranked = e.nextGeneration(ranked, creator, ranker, selector)
	}

	sortDescending(ranked)
	return Result[T]{Population: ranked, Best: ranked[0], Statistics: stats}
}

func (e *Engine[T]) initialPopulation(creator Creator[T]) []T {
	pop := make([]T, e.Params.PopulationSize)
	for i := range pop {
		pop[i] = creator.Create(e.rng)
	}
	return pop
}

func (e *Engine[T]) rankPopulation(pop []T, ranker Ranker[T]) []Candidate[T] {
	out := make([]Candidate[T], len(pop))
	if !e.Params.InParallel {
		for i, t := range pop {
			out[i] = Candidate[T]{Value: t, Fitness: e.rankOne(t, ranker)}
		}
		return out
	}

	var wg sync.WaitGroup
	wg.Add(len(pop))
	for i, t := range pop {
		i, t := i, t
		go func() {
			defer wg.Done()
			out[i] = Candidate[T]{Value: t, Fitness: e.rankOne(t, ranker)}
		}()
	}
	wg.Wait()
	return out
}

func (e *Engine[T]) rankOne(t T, ranker Ranker[T]) float64 {
	if e.cache == nil {
		return ranker.Rank(t)
	}
	h, ok := hashOf[T](t)
	if !ok {
		return ranker.Rank(t)
	}
	if f, found := e.cache.get(h); found {
		return f
	}
	f := ranker.Rank(t)
	e.cache.put(h, f)
	return f
}

func hashOf[T any](t T) (uint64, bool) {
	h, ok := any(t).(Hashable)
	if !ok {
		return 0, false
	}
	return h.Hash(), true
}

func (e *Engine[T]) nextGeneration(ranked []Candidate[T], creator Creator[T], ranker Ranker[T], selector Selector[T]) []Candidate[T] {
	next := make([]T, 0, e.Params.PopulationSize)

	elite := e.Params.NumBestParents
	if elite > len(ranked) {
		elite = len(ranked)
	}
	for i := 0; i < elite; i++ {
		next = append(next, ranked[i].Value)
	}

	maybeMutate := func(child T) T {
		if e.rng.Float64() < e.Params.MutationRate {
			return creator.Mutate(child, e.rng)
		}
		return child
	}

	for len(next) < e.Params.PopulationSize {
		parents := selector.Select(ranked, 2, e.rng)
		switch {
		case len(parents) >= 2 && e.rng.Float64() < e.Params.CrossoverRate:
			childA, childB := creator.Crossover(parents[0].Value, parents[1].Value, e.rng)
			next = append(next, maybeMutate(childA))
			if len(next) < e.Params.PopulationSize {
				next = append(next, maybeMutate(childB))
			}
		case len(parents) >= 1:
			next = append(next, maybeMutate(parents[0].Value))
		default:
			next = append(next, maybeMutate(creator.Create(e.rng)))
		}
	}

	return e.rankPopulation(next, ranker)
}

func sortDescending[T any](pop []Candidate[T]) {
	sort.Slice(pop, func(i, j int) bool { return pop[i].Fitness > pop[j].Fitness })
}

func mean[T any](pop []Candidate[T]) float64 {
	if len(pop) == 0 {
		return 0
	}
	var sum float64
	for _, c := range pop {
		sum += c.Fitness
	}
	return sum / float64(len(pop))
}
