// internal/benchmark/benchmark.go
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/pool"
)

// now is swapped in tests to drive the duration budget.
var now = time.Now

// Options configures a suite run.
type Options struct {
	Workers    int
	Iterations int
	// Duration, when positive, replaces Iterations: iterations repeat until
	// another one would exceed the budget. At least one always runs.
	Duration time.Duration
	Include  string
	Exclude  string
	Quick    bool
	Scale    int
	// ForceTime reports times even when every benchmark has a reference.
	ForceTime  bool
	Stdev      bool
	Seed       int64
	Sleep      time.Duration
	NoPass     bool
	NoParallel bool
	HostCPUs   int
	Observer   Observer
}

// normalized applies defaults and the quick/no-parallel overrides.
func (o Options) normalized() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Iterations < 1 {
		o.Iterations = 1
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.Quick || o.NoParallel {
		o.Scale = 1
	}
	if o.NoParallel {
		o.Workers = 1
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// Run executes the suite and returns its aggregate result. Configuration
// errors are returned before anything runs. Workload errors never abort the
// run. If ctx is cancelled the partial result of the completed iterations is
// returned together with the context error.
func Run(ctx context.Context, suite Suite, opts Options, p pool.Pool) (*metrics.Result, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	selected, err := Select(suite, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no benchmarks match include %q and exclude %q", ErrConfig, opts.Include, opts.Exclude)
	}
	if opts.NoParallel || p == nil {
		p = pool.New(opts.NoParallel)
	}

	references := make([]time.Duration, len(selected))
	for i, def := range selected {
		references[i] = def.Reference
	}

	started := now()
	agg := metrics.NewAggregator(metrics.RunOptions{
		RunID:               ulid.Make().String(),
		StartedAt:           started.UTC(),
		Benchmarks:          selected.Names(),
		RequestedIterations: opts.Iterations,
		Duration:            opts.Duration.Seconds(),
		Workers:             opts.Workers,
		Scale:               opts.Scale,
		Quick:               opts.Quick,
		Mode:                metrics.ResolveMode(opts.Quick, opts.ForceTime, references),
		Stdev:               opts.Stdev,
		Seed:                opts.Seed,
		Sleep:               opts.Sleep.Seconds(),
		NoPass:              opts.NoPass,
		NoParallel:          opts.NoParallel,
		Include:             opts.Include,
		Exclude:             opts.Exclude,
		HostCPUs:            opts.HostCPUs,
	})

	finish := func(err error) (*metrics.Result, error) {
		res := agg.Result()
		res.Opt.Elapsed = now().Sub(started).Seconds()
		return res, err
	}

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return finish(fmt.Errorf("run cancelled after %d iterations: %w", agg.Iterations(), err))
		}
		opts.Observer.IterationStarted(iteration)
		agg.BeginIteration()
		for _, def := range selected {
			if err := ctx.Err(); err != nil {
				return finish(fmt.Errorf("run cancelled after %d iterations: %w", agg.Iterations(), err))
			}
			outcomes := dispatch(ctx, p, def, opts)
			for _, o := range outcomes {
				opts.Observer.OutcomeRecorded(o)
			}
			f := agg.Fold(def.Name, def.Reference, outcomes)
			opts.Observer.BenchmarkFinished(iteration, def.Name, f)
			if err := pause(ctx, opts.Sleep); err != nil {
				return finish(fmt.Errorf("run cancelled after %d iterations: %w", agg.Iterations(), err))
			}
		}
		agg.EndIteration()
		opts.Observer.IterationFinished(iteration)

		if opts.Duration > 0 {
			elapsed := now().Sub(started)
			perIteration := elapsed / time.Duration(iteration)
			if elapsed+perIteration > opts.Duration {
				break
			}
			continue
		}
		if iteration >= opts.Iterations {
			break
		}
	}
	return finish(nil)
}

// dispatch runs one benchmark on every worker and converts the pool results
// into outcomes ordered by worker index.
func dispatch(ctx context.Context, p pool.Pool, def Definition, opts Options) []metrics.Outcome {
	arg, calls := argument(def, opts.Quick, opts.Scale)
	results := p.Execute(ctx, opts.Workers, invocation(def, arg, calls, opts.Seed))
	pool.SortByWorker(results)

	outcomes := make([]metrics.Outcome, len(results))
	for i, r := range results {
		outcomes[i] = metrics.Outcome{
			Benchmark: def.Name,
			Worker:    r.Worker,
			Elapsed:   r.Elapsed,
			Value:     r.Value,
			Err:       r.Err,
			Verdict:   verdict(def, r, opts.NoPass),
		}
	}
	return outcomes
}

// pause blocks for d unless ctx is cancelled first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunScalability runs the suite once with a single worker and once with
// workers workers, returning both aggregate results.
func RunScalability(ctx context.Context, suite Suite, opts Options, p pool.Pool, workers int) (baseline, scaled *metrics.Result, err error) {
	single := opts
	single.Workers = 1
	baseline, err = Run(ctx, suite, single, p)
	if err != nil {
		return baseline, nil, fmt.Errorf("baseline run: %w", err)
	}

	multi := opts
	multi.Workers = workers
	scaled, err = Run(ctx, suite, multi, p)
	if err != nil {
		return baseline, scaled, fmt.Errorf("scaled run: %w", err)
	}
	return baseline, scaled, nil
}
