package benchmark

import (
	"context"
	"fmt"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/hostinfo"
	"github.com/mwiater/corebench/internal/logging"
	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/pool"
)

var hostCPUs = hostinfo.LogicalCPUs

// OptionsFromConfig maps the application configuration onto run options.
func OptionsFromConfig(cfg *appconfig.Config) Options {
	return Options{
		Workers:    cfg.WorkerCount(),
		Iterations: cfg.IterationCount(),
		Duration:   cfg.DurationBudget(),
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		Quick:      cfg.Quick,
		Scale:      cfg.ScaleFactor(),
		ForceTime:  cfg.Time,
		Stdev:      cfg.Stdev,
		Seed:       cfg.Seed,
		Sleep:      cfg.SleepDuration(),
		NoPass:     cfg.NoPass,
		NoParallel: cfg.NoParallel,
		HostCPUs:   hostCPUs(),
	}
}

// RunConfigured is the CLI entry point for a suite run.
func RunConfigured(ctx context.Context, cfg *appconfig.Config, obs Observer) (*metrics.Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrConfig)
	}
	suite, err := SuiteFromConfig(*cfg)
	if err != nil {
		return nil, err
	}
	opts := OptionsFromConfig(cfg)
	opts.Observer = obs

	logging.LogEvent("Running %d benchmarks with %d workers", len(suite), opts.Workers)
	res, err := Run(ctx, suite, opts, pool.New(opts.NoParallel))
	if res != nil {
		logging.LogEvent("Finished %s", res)
	}
	return res, err
}

// RunConfiguredScalability runs the configured suite with one worker and
// with workers workers. A workers value below 1 selects the host's logical
// CPU count.
func RunConfiguredScalability(ctx context.Context, cfg *appconfig.Config, workers int, obs Observer) (baseline, scaled *metrics.Result, err error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: config is nil", ErrConfig)
	}
	suite, err := SuiteFromConfig(*cfg)
	if err != nil {
		return nil, nil, err
	}
	opts := OptionsFromConfig(cfg)
	opts.Observer = obs
	if workers < 1 {
		workers = opts.HostCPUs
	}

	logging.LogEvent("Running scalability comparison of %d benchmarks: 1 vs %d workers", len(suite), workers)
	return RunScalability(ctx, suite, opts, pool.New(opts.NoParallel), workers)
}
