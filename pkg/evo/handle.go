package evo

import (
	"fmt"
	"sync"
)

// Handle is an in-flight async run. Cancel marks the run's generation as
// stale; Join blocks for the result, returning an error if the run was
// cancelled before completion. The generation-counter scheme mirrors the
// staleness check used for single evaluations elsewhere in this codebase's
// ancestry: a cancelled run's goroutine is left to finish on its own, and
// its result is discarded when it arrives.
type Handle[T any] struct {
	resultCh chan Result[T]
	mu       *sync.Mutex
	gen      *uint64
	myGen    uint64
}

// RunAsync starts Run in a background goroutine and returns immediately
// with a Handle. The running engine polls for cancellation itself between
// generations, so Cancel stops the search early rather than merely
// discarding its result at Join.
func (e *Engine[T]) RunAsync(creator Creator[T], ranker Ranker[T], selector Selector[T], stop Stop[T]) *Handle[T] {
	mu := &sync.Mutex{}
	gen := new(uint64)
	myGen := *gen

	h := &Handle[T]{
		resultCh: make(chan Result[T], 1),
		mu:       mu,
		gen:      gen,
		myGen:    myGen,
	}

	cancelled := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return *gen != myGen
	}

	go func() {
		res := e.run(creator, ranker, selector, stop, cancelled)
		h.resultCh <- res
	}()

	return h
}

// Cancel marks h's run as superseded. The engine checks for this between
// generations and stops the search there; Join reports cancellation
// instead of blocking on a result that will now arrive early.
func (h *Handle[T]) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.gen++
}

// Join blocks until the run completes or has been cancelled.
func (h *Handle[T]) Join() (Result[T], error) {
	h.mu.Lock()
	current := *h.gen
	h.mu.Unlock()

	if current != h.myGen {
		return Result[T]{}, fmt.Errorf("evo: run was cancelled")
	}

	res := <-h.resultCh

	h.mu.Lock()
	current = *h.gen
	h.mu.Unlock()
	if current != h.myGen {
		return Result[T]{}, fmt.Errorf("evo: run was cancelled")
	}
	return res, nil
}
