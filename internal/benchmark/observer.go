package benchmark

import (
	"github.com/mwiater/corebench/internal/logging"
	"github.com/mwiater/corebench/internal/metrics"
)

// Observer receives progress events from a run. All methods are called from
// the orchestrator goroutine.
type Observer interface {
	IterationStarted(iteration int)
	OutcomeRecorded(o metrics.Outcome)
	BenchmarkFinished(iteration int, name string, f metrics.Fold)
	IterationFinished(iteration int)
}

// Observers fans events out to several observers.
type Observers []Observer

func (obs Observers) IterationStarted(iteration int) {
	for _, o := range obs {
		o.IterationStarted(iteration)
	}
}

func (obs Observers) OutcomeRecorded(out metrics.Outcome) {
	for _, o := range obs {
		o.OutcomeRecorded(out)
	}
}

func (obs Observers) BenchmarkFinished(iteration int, name string, f metrics.Fold) {
	for _, o := range obs {
		o.BenchmarkFinished(iteration, name, f)
	}
}

func (obs Observers) IterationFinished(iteration int) {
	for _, o := range obs {
		o.IterationFinished(iteration)
	}
}

// RecorderObserver feeds a Prometheus recorder.
type RecorderObserver struct {
	Recorder *metrics.Recorder
}

func (r RecorderObserver) IterationStarted(int) {}

func (r RecorderObserver) OutcomeRecorded(o metrics.Outcome) { r.Recorder.ObserveOutcome(o) }

func (r RecorderObserver) BenchmarkFinished(_ int, name string, f metrics.Fold) {
	r.Recorder.ObserveFold(name, f)
}

func (r RecorderObserver) IterationFinished(int) { r.Recorder.ObserveIteration() }

// LogObserver writes run progress to the application log. Per-invocation
// lines are only written when Verbose is set.
type LogObserver struct {
	Verbose bool
}

func (l LogObserver) IterationStarted(iteration int) {
	logging.LogEvent("[RUN] iteration %d started", iteration)
}

func (l LogObserver) OutcomeRecorded(o metrics.Outcome) {
	if !l.Verbose && o.Err == nil && o.Verdict != metrics.VerdictFail {
		return
	}
	logging.LogInvocation(o.Benchmark, o.Worker, o.Elapsed, o.Verdict.String(), o.Err, o.Value)
}

func (l LogObserver) BenchmarkFinished(iteration int, name string, f metrics.Fold) {
	logging.LogEvent("[RUN] iteration %d benchmark=%s avg=%.6fs score=%.1f rate=%.3f/s", iteration, name, f.AvgTime, f.Score, f.Rate)
}

func (l LogObserver) IterationFinished(iteration int) {
	logging.LogEvent("[RUN] iteration %d finished", iteration)
}

type nopObserver struct{}

func (nopObserver) IterationStarted(int)                        {}
func (nopObserver) OutcomeRecorded(metrics.Outcome)             {}
func (nopObserver) BenchmarkFinished(int, string, metrics.Fold) {}
func (nopObserver) IterationFinished(int)                       {}
