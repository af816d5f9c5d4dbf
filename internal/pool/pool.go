// Package pool runs one call across a number of workers and collects a
// result per worker.
package pool

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of running a call on one worker.
type Result struct {
	Worker  int
	Elapsed time.Duration
	Value   any
	Err     error
}

// Call runs on a single worker. worker is 1-based.
type Call func(ctx context.Context, worker int) Result

// Pool executes a call on workers workers and returns one result per worker,
// sorted by worker index.
type Pool interface {
	Execute(ctx context.Context, workers int, call Call) []Result
}

// Parallel runs every worker in its own goroutine.
type Parallel struct{}

// Serial runs workers one after another on the calling goroutine.
type Serial struct{}

var (
	_ Pool = Parallel{}
	_ Pool = Serial{}
)

// New returns the serial pool when parallel dispatch is disabled and the
// parallel pool otherwise.
func New(noParallel bool) Pool {
	if noParallel {
		return Serial{}
	}
	return Parallel{}
}

// Execute starts all workers behind a shared start barrier so they begin
// their calls together, then waits for all of them.
func (Parallel) Execute(ctx context.Context, workers int, call Call) []Result {
	workers = clampWorkers(workers)
	if workers == 1 {
		return Serial{}.Execute(ctx, 1, call)
	}

	results := make([]Result, workers)
	start := make(chan struct{})
	var ready sync.WaitGroup
	ready.Add(workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		worker := i + 1
		g.Go(func() error {
			ready.Done()
			<-start
			r := call(ctx, worker)
			r.Worker = worker
			results[worker-1] = r
			return nil
		})
	}
	ready.Wait()
	close(start)
	_ = g.Wait()

	return results
}

// Execute invokes the call once per worker in index order.
func (Serial) Execute(ctx context.Context, workers int, call Call) []Result {
	workers = clampWorkers(workers)
	results := make([]Result, 0, workers)
	for worker := 1; worker <= workers; worker++ {
		r := call(ctx, worker)
		r.Worker = worker
		results = append(results, r)
	}
	return results
}

// SortByWorker orders results by worker index in place.
func SortByWorker(results []Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].Worker < results[j].Worker })
}

func clampWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}
