// internal/metrics/aggregator.go
package metrics

import (
	"time"
)

// Fold is the contribution of one benchmark to one iteration.
type Fold struct {
	AvgTime float64
	Score   float64
	Rate    float64
	// OK is false when every worker failed.
	OK bool
}

// Aggregator turns raw outcomes into an aggregate result. It is owned by a
// single goroutine and does no locking.
type Aggregator struct {
	result    *Result
	completed int
	open      bool

	iterTimeSum   float64
	iterTimeCount int
	iterScoreSum  float64
	iterRateSum   float64
}

// NewAggregator creates an aggregator for a run with the given options. The
// Iterations field is overwritten with the completed count by Result.
func NewAggregator(opts RunOptions) *Aggregator {
	if opts.Mode == "" {
		opts.Mode = ModeScore
	}
	return &Aggregator{
		result: &Result{
			Entries: make(map[string]*Entry, len(opts.Benchmarks)),
			Total:   &Entry{Name: TotalKey},
			Opt:     opts,
		},
	}
}

// BeginIteration starts accumulating a new iteration.
func (a *Aggregator) BeginIteration() {
	a.open = true
	a.iterTimeSum = 0
	a.iterTimeCount = 0
	a.iterScoreSum = 0
	a.iterRateSum = 0
}

// Fold records the outcomes of one benchmark in the current iteration.
// reference is the benchmark's reference time, zero when unset.
func (a *Aggregator) Fold(name string, reference time.Duration, outcomes []Outcome) Fold {
	entry := a.entry(name, reference)

	var f Fold
	var timeSum float64
	var succeeded int
	values := make([]any, len(outcomes))
	for i, o := range outcomes {
		switch o.Verdict {
		case VerdictPass:
			entry.Passed++
		case VerdictFail:
			entry.Failed++
		}
		if o.Failed() {
			entry.Errors++
			continue
		}
		values[i] = o.Value
		seconds := o.Elapsed.Seconds()
		timeSum += seconds
		succeeded++
		if seconds > 0 {
			f.Rate += 1 / seconds
			if reference > 0 {
				f.Score += 1000 * reference.Seconds() / seconds
			}
		}
	}
	entry.Values = values

	if succeeded > 0 {
		f.OK = true
		f.AvgTime = timeSum / float64(succeeded)
		a.iterTimeSum += f.AvgTime
		a.iterTimeCount++
	}
	a.iterScoreSum += f.Score
	a.iterRateSum += f.Rate

	entry.Times = append(entry.Times, f.AvgTime)
	entry.Rates = append(entry.Rates, f.Rate)
	if reference > 0 {
		entry.Scores = append(entry.Scores, f.Score)
	}
	return f
}

// EndIteration closes the current iteration and appends the total row.
func (a *Aggregator) EndIteration() {
	if !a.open {
		return
	}
	a.open = false
	a.completed++

	total := a.result.Total
	var avg float64
	if a.iterTimeCount > 0 {
		avg = a.iterTimeSum / float64(a.iterTimeCount)
	}
	total.Times = append(total.Times, avg)
	total.Rates = append(total.Rates, a.iterRateSum)
	if a.result.Opt.Mode == ModeScore {
		total.Scores = append(total.Scores, a.iterScoreSum)
	}
}

// Iterations returns the number of completed iterations.
func (a *Aggregator) Iterations() int { return a.completed }

// Result finalizes the aggregate. Series of an iteration that was begun but
// never ended are dropped so every series has one value per completed
// iteration.
func (a *Aggregator) Result() *Result {
	r := a.result
	r.Opt.Iterations = a.completed

	names := make([]string, 0, len(r.Opt.Benchmarks))
	for _, name := range r.Opt.Benchmarks {
		if e, ok := r.Entries[name]; ok {
			names = append(names, name)
			finalize(e, a.completed, r.Opt.Stdev)
		}
	}
	r.Opt.Benchmarks = names
	finalize(r.Total, a.completed, r.Opt.Stdev)
	return r
}

func (a *Aggregator) entry(name string, reference time.Duration) *Entry {
	if e, ok := a.result.Entries[name]; ok {
		return e
	}
	e := &Entry{Name: name, Reference: reference.Seconds(), Times: []float64{}, Rates: []float64{}}
	if reference > 0 {
		e.Scores = []float64{}
	}
	a.result.Entries[name] = e
	if !contains(a.result.Opt.Benchmarks, name) {
		a.result.Opt.Benchmarks = append(a.result.Opt.Benchmarks, name)
	}
	return e
}

func finalize(e *Entry, iterations int, withStdev bool) {
	e.Times = truncate(e.Times, iterations)
	e.Rates = truncate(e.Rates, iterations)
	if e.Scores != nil {
		e.Scores = truncate(e.Scores, iterations)
	}
	if iterations < 2 {
		return
	}
	ts := Summarize(e.Times, withStdev)
	rs := Summarize(e.Rates, withStdev)
	e.TimeStats = &ts
	e.RateStats = &rs
	if e.Scores != nil {
		ss := Summarize(e.Scores, withStdev)
		e.ScoreStats = &ss
	}
}

func truncate(values []float64, n int) []float64 {
	if values == nil {
		return []float64{}
	}
	if len(values) > n {
		return values[:n]
	}
	return values
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// ResolveMode picks time reporting when quick mode is on, when time reporting
// is forced, or when any benchmark lacks a reference time.
func ResolveMode(quick, forceTime bool, references []time.Duration) Mode {
	if quick || forceTime {
		return ModeTime
	}
	for _, ref := range references {
		if ref <= 0 {
			return ModeTime
		}
	}
	return ModeScore
}
