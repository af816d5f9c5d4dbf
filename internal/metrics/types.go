// internal/metrics/types.go
package metrics

import (
	"fmt"
	"time"
)

// Reserved keys of the encoded aggregate result.
const (
	TotalKey   = "_total"
	OptionsKey = "_opt"
)

// Verdict is the verification state of one invocation.
type Verdict int

const (
	// VerdictUnchecked means no expected value was configured or
	// verification was disabled.
	VerdictUnchecked Verdict = iota
	VerdictPass
	VerdictFail
)

// String returns the lowercase verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "pass"
	case VerdictFail:
		return "fail"
	default:
		return "unchecked"
	}
}

// Mode selects whether a run is reported in scores or in times.
type Mode string

const (
	ModeScore Mode = "score"
	ModeTime  Mode = "time"
)

// Outcome is the record of a single (benchmark, iteration, worker) call.
type Outcome struct {
	Benchmark string
	Worker    int
	Elapsed   time.Duration
	Value     any
	Err       error
	Verdict   Verdict
}

// Failed reports whether the workload returned an error, in which case its
// timing is discarded.
func (o Outcome) Failed() bool { return o.Err != nil }

// RunOptions is the effective configuration of a run, encoded as "_opt".
type RunOptions struct {
	RunID               string    `json:"runId" yaml:"runId"`
	StartedAt           time.Time `json:"startedAt" yaml:"startedAt"`
	Elapsed             float64   `json:"elapsed" yaml:"elapsed"`
	Benchmarks          []string  `json:"benchmarks" yaml:"benchmarks"`
	Iterations          int       `json:"iterations" yaml:"iterations"`
	RequestedIterations int       `json:"requestedIterations" yaml:"requestedIterations"`
	Duration            float64   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Workers             int       `json:"workers" yaml:"workers"`
	Scale               int       `json:"scale" yaml:"scale"`
	Quick               bool      `json:"quick" yaml:"quick"`
	Mode                Mode      `json:"mode" yaml:"mode"`
	Stdev               bool      `json:"stdev" yaml:"stdev"`
	Seed                int64     `json:"seed,omitempty" yaml:"seed,omitempty"`
	Sleep               float64   `json:"sleep,omitempty" yaml:"sleep,omitempty"`
	NoPass              bool      `json:"noPass" yaml:"noPass"`
	NoParallel          bool      `json:"noParallel" yaml:"noParallel"`
	Include             string    `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude             string    `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	HostCPUs            int       `json:"hostCpus,omitempty" yaml:"hostCpus,omitempty"`
}

// Summary describes a series across iterations.
type Summary struct {
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	RelStdev float64 `json:"relStdev,omitempty" yaml:"relStdev,omitempty"`
}

// Entry holds the per-iteration series of one benchmark or of the total.
type Entry struct {
	Name      string  `json:"-" yaml:"-"`
	Reference float64 `json:"reference,omitempty" yaml:"reference,omitempty"`
	// Times are per-iteration average seconds per call.
	Times []float64 `json:"times" yaml:"times"`
	// Scores are per-iteration scores summed over workers. Nil when no
	// reference time is configured.
	Scores []float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
	// Rates are per-iteration calls per second summed over workers.
	Rates []float64 `json:"rates" yaml:"rates"`

	Passed int `json:"passed" yaml:"passed"`
	Failed int `json:"failed" yaml:"failed"`
	Errors int `json:"errors" yaml:"errors"`
	// Values are the values returned by each worker in the last iteration,
	// indexed by worker-1. Failed workers leave a nil slot.
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	TimeStats  *Summary `json:"timeStats,omitempty" yaml:"timeStats,omitempty"`
	ScoreStats *Summary `json:"scoreStats,omitempty" yaml:"scoreStats,omitempty"`
	RateStats  *Summary `json:"rateStats,omitempty" yaml:"rateStats,omitempty"`
}

// HasScores reports whether the entry carries a score series.
func (e *Entry) HasScores() bool { return e != nil && e.Scores != nil }

// Result is the aggregate of one suite run.
type Result struct {
	Entries map[string]*Entry
	Total   *Entry
	Opt     RunOptions
}

// Names returns the benchmark names in run order.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	return r.Opt.Benchmarks
}

// Entry returns the entry for a benchmark name, or the total for TotalKey.
func (r *Result) Entry(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	if name == TotalKey {
		return r.Total, r.Total != nil
	}
	e, ok := r.Entries[name]
	return e, ok
}

// Failures returns the total verification failures and workload errors.
func (r *Result) Failures() (failed, errored int) {
	for _, e := range r.Entries {
		failed += e.Failed
		errored += e.Errors
	}
	return failed, errored
}

// String returns a short description of the run.
func (r *Result) String() string {
	return fmt.Sprintf("run %s: %d benchmarks, %d iterations, %d workers, %s mode",
		r.Opt.RunID, len(r.Opt.Benchmarks), r.Opt.Iterations, r.Opt.Workers, r.Opt.Mode)
}
