package evo

import "sync"

// fitnessCache memoises Rank results by creature hash, guarded by a mutex
// since InParallel ranking hits it concurrently.
type fitnessCache struct {
	mu sync.Mutex
	m  map[uint64]float64
}

func newFitnessCache() *fitnessCache {
	return &fitnessCache{m: make(map[uint64]float64)}
}

func (c *fitnessCache) get(h uint64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.m[h]
	return f, ok
}

func (c *fitnessCache) put(h uint64, f float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[h] = f
}
