package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParallelRunsEveryWorkerOnce(t *testing.T) {
	var calls atomic.Int32
	results := Parallel{}.Execute(context.Background(), 4, func(ctx context.Context, worker int) Result {
		calls.Add(1)
		return Result{Value: worker * 10}
	})

	if calls.Load() != 4 {
		t.Fatalf("expected 4 calls, got %d", calls.Load())
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Worker != i+1 {
			t.Fatalf("result %d has worker %d", i, r.Worker)
		}
		if r.Value != (i+1)*10 {
			t.Fatalf("worker %d value %v", r.Worker, r.Value)
		}
	}
}

func TestParallelWorkersOverlap(t *testing.T) {
	var running, peak atomic.Int32
	Parallel{}.Execute(context.Background(), 3, func(ctx context.Context, worker int) Result {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return Result{}
	})
	if peak.Load() < 2 {
		t.Fatalf("expected concurrent workers, peak was %d", peak.Load())
	}
}

func TestSerialKeepsErrorsPerWorker(t *testing.T) {
	boom := errors.New("boom")
	results := Serial{}.Execute(context.Background(), 3, func(ctx context.Context, worker int) Result {
		if worker == 2 {
			return Result{Err: boom}
		}
		return Result{Value: worker}
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !errors.Is(results[1].Err, boom) {
		t.Fatalf("expected worker 2 error, got %v", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("unexpected errors: %+v", results)
	}
}

func TestZeroWorkersDegradesToOne(t *testing.T) {
	for _, p := range []Pool{Parallel{}, Serial{}} {
		results := p.Execute(context.Background(), 0, func(ctx context.Context, worker int) Result {
			return Result{Value: worker}
		})
		if len(results) != 1 || results[0].Worker != 1 {
			t.Fatalf("%T: expected single worker result, got %+v", p, results)
		}
	}
}

func TestNewSelectsPool(t *testing.T) {
	if _, ok := New(true).(Serial); !ok {
		t.Fatalf("expected serial pool when parallel dispatch is disabled")
	}
	if _, ok := New(false).(Parallel); !ok {
		t.Fatalf("expected parallel pool")
	}
}

func TestSortByWorker(t *testing.T) {
	results := []Result{{Worker: 3}, {Worker: 1}, {Worker: 2}}
	SortByWorker(results)
	for i, r := range results {
		if r.Worker != i+1 {
			t.Fatalf("unsorted results: %+v", results)
		}
	}
}
