package evo

import "math/rand/v2"

// TournamentSelector repeatedly samples K candidates and keeps the winner,
// matching the tournament-selection shape in the teacher's genetics
// package but parameterised over this engine's Candidate/Params types.
type TournamentSelector[T any] struct {
	K int
}

// Select runs size independent tournaments and returns their winners.
func (ts TournamentSelector[T]) Select(pop []Candidate[T], size int, rng *rand.Rand) []Candidate[T] {
	k := ts.K
	if k > len(pop) {
		k = len(pop)
	}
	if k < 1 {
		k = 1
	}

	out := make([]Candidate[T], size)
	for i := 0; i < size; i++ {
		winner := pop[rng.IntN(len(pop))]
		for j := 1; j < k; j++ {
			c := pop[rng.IntN(len(pop))]
			if c.Fitness > winner.Fitness {
				winner = c
			}
		}
		out[i] = winner
	}
	return out
}
