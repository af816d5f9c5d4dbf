package corebench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/benchmark"
	"github.com/mwiater/corebench/internal/logging"
	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/report"
	"github.com/mwiater/corebench/internal/store"
	"github.com/mwiater/corebench/internal/tui"
)

var (
	runConfigured            = benchmark.RunConfigured
	runConfiguredScalability = benchmark.RunConfiguredScalability
	openStore                = func(path string) (store.Store, error) { return store.NewSQLiteStore(path) }
	progressOutput           = os.Stderr
)

// session bundles the observers of one command invocation.
type session struct {
	cfg      *appconfig.Config
	recorder *metrics.Recorder
	progress *tui.Progress
}

// newSession prepares the observers for runs consecutive suite runs.
func newSession(cfg *appconfig.Config, runs int) (*session, error) {
	s := &session{cfg: cfg, recorder: metrics.NewRecorder()}
	if cfg.Progress && !cfg.Quiet && report.IsTerminal(progressOutput) {
		suite, err := benchmark.SuiteFromConfig(*cfg)
		if err != nil {
			return nil, err
		}
		selected, err := benchmark.Select(suite, cfg.Include, cfg.Exclude)
		if err != nil {
			return nil, err
		}
		iterations := cfg.IterationCount()
		if cfg.DurationBudget() > 0 {
			iterations = 0
		}
		s.progress = tui.NewProgress(progressOutput, len(selected), iterations, runs)
	}
	return s, nil
}

func (s *session) observer() benchmark.Observer {
	obs := benchmark.Observers{
		benchmark.LogObserver{Verbose: s.cfg.Debug},
		benchmark.RecorderObserver{Recorder: s.recorder},
	}
	if s.progress != nil {
		obs = append(obs, s.progress)
	}
	return obs
}

// start begins the progress display, if any, and returns its stop function.
func (s *session) start() func() {
	if s.progress == nil {
		return func() {}
	}
	s.progress.Start()
	return func() {
		if err := s.progress.Stop(); err != nil {
			logging.LogEvent("progress display: %v", err)
		}
	}
}

// finish writes the Prometheus textfile and saves the given results.
func (s *session) finish(ctx context.Context, results ...*metrics.Result) error {
	if s.cfg.MetricsFile != "" {
		if err := s.recorder.WriteTextfile(s.cfg.MetricsFile); err != nil {
			return err
		}
		logging.LogEvent("Wrote metrics to %s", s.cfg.MetricsFile)
	}
	if !s.cfg.Save {
		return nil
	}
	st, err := openStore(s.cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()
	for _, res := range results {
		if res == nil {
			continue
		}
		if err := st.SaveRun(ctx, res); err != nil {
			return err
		}
		logging.LogEvent("Saved run %s to %s", res.Opt.RunID, s.cfg.StorePath())
	}
	return nil
}

func reportOptions(cfg *appconfig.Config, out io.Writer) report.Options {
	f, _ := out.(*os.File)
	return report.Options{
		Quiet:  cfg.Quiet,
		Color:  report.ColorEnabled(f),
		Format: cfg.OutputFormat(),
		Stdev:  cfg.Stdev,
	}
}

// runSuite executes the configured suite. A cancelled run still reports and
// exports the iterations that completed before returning the error.
func runSuite(cmd *cobra.Command, cfg *appconfig.Config) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	s, err := newSession(cfg, 1)
	if err != nil {
		return err
	}
	stop := s.start()
	res, runErr := runConfigured(ctx, cfg, s.observer())
	stop()
	if res == nil {
		return runErr
	}

	if err := report.Write(out, res, reportOptions(cfg, out)); err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := report.Export(cfg.Output, res); err != nil {
			return err
		}
		logging.LogEvent("Exported run %s to %s", res.Opt.RunID, cfg.Output)
	}
	if err := s.finish(ctx, res); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if failed, errored := res.Failures(); failed > 0 || errored > 0 {
		return fmt.Errorf("%d verification failures, %d errors", failed, errored)
	}
	return nil
}
