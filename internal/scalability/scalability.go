// Package scalability compares a single-worker baseline run against a
// multi-worker run of the same suite.
package scalability

import (
	"errors"
	"fmt"
	"math"

	"github.com/mwiater/corebench/internal/metrics"
)

// OutlierSigma is how many standard deviations below the mean of the other
// benchmarks a mean ratio must fall to be excluded from the total.
const OutlierSigma = 2.0

// OutlierMinSpread is the smallest exclusion margin, as a fraction of the
// other benchmarks' mean ratio.
const OutlierMinSpread = 0.1

// minOutlierSample is the smallest number of compared benchmarks for which
// outlier exclusion is attempted.
const minOutlierSample = 3

var (
	// ErrNotMeaningful reports that the scaled run did not use more workers
	// than the baseline.
	ErrNotMeaningful = errors.New("scalability comparison not meaningful: scaled worker count does not exceed baseline")
	// ErrNoCommon reports that the two runs share no benchmark.
	ErrNoCommon = errors.New("runs have no benchmark in common")
)

// Options controls a comparison.
type Options struct {
	KeepOutliers bool
	Stdev        bool
}

// Entry is the scalability of one benchmark, or of the total.
type Entry struct {
	Name    string          `json:"-" yaml:"-"`
	Ratios  []float64       `json:"ratios" yaml:"ratios"`
	Summary metrics.Summary `json:"summary" yaml:"summary"`
	Outlier bool            `json:"outlier,omitempty" yaml:"outlier,omitempty"`
}

// Mean returns the mean ratio.
func (e *Entry) Mean() float64 { return e.Summary.Mean }

// Result is the outcome of Compare. It is never mutated after Compare
// returns.
type Result struct {
	Entries         map[string]*Entry `json:"entries" yaml:"entries"`
	Order           []string          `json:"order" yaml:"order"`
	Total           *Entry            `json:"_total" yaml:"_total"`
	Excluded        []string          `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Missing         []string          `json:"missing,omitempty" yaml:"missing,omitempty"`
	BaselineRunID   string            `json:"baselineRunId,omitempty" yaml:"baselineRunId,omitempty"`
	ScaledRunID     string            `json:"scaledRunId,omitempty" yaml:"scaledRunId,omitempty"`
	BaselineWorkers int               `json:"baselineWorkers" yaml:"baselineWorkers"`
	ScaledWorkers   int               `json:"scaledWorkers" yaml:"scaledWorkers"`
	KeepOutliers    bool              `json:"keepOutliers" yaml:"keepOutliers"`
	Meaningful      bool              `json:"meaningful" yaml:"meaningful"`
}

// Err returns ErrNotMeaningful when the scaled run did not use more workers
// than the baseline, nil otherwise.
func (r *Result) Err() error {
	if r.Meaningful {
		return nil
	}
	return fmt.Errorf("%w (%d vs %d)", ErrNotMeaningful, r.ScaledWorkers, r.BaselineWorkers)
}

// Compare computes per-benchmark and total ratios of scaled over baseline.
// Neither input is modified.
func Compare(baseline, scaled *metrics.Result, opts Options) (*Result, error) {
	if baseline == nil || scaled == nil {
		return nil, errors.New("compare: baseline and scaled results are required")
	}

	res := &Result{
		Entries:         make(map[string]*Entry),
		BaselineRunID:   baseline.Opt.RunID,
		ScaledRunID:     scaled.Opt.RunID,
		BaselineWorkers: baseline.Opt.Workers,
		ScaledWorkers:   scaled.Opt.Workers,
		KeepOutliers:    opts.KeepOutliers,
	}
	res.Meaningful = res.ScaledWorkers > res.BaselineWorkers

	for _, name := range baseline.Names() {
		b := baseline.Entries[name]
		s, ok := scaled.Entries[name]
		if !ok {
			res.Missing = append(res.Missing, name)
			continue
		}
		ratios := ratioSeries(b, s)
		res.Entries[name] = &Entry{Name: name, Ratios: ratios, Summary: metrics.Summarize(ratios, opts.Stdev)}
		res.Order = append(res.Order, name)
	}
	for _, name := range scaled.Names() {
		if _, ok := baseline.Entries[name]; !ok {
			res.Missing = append(res.Missing, name)
		}
	}
	if len(res.Order) == 0 {
		return nil, ErrNoCommon
	}

	if !opts.KeepOutliers {
		res.Excluded = outliers(res)
		for _, name := range res.Excluded {
			res.Entries[name].Outlier = true
		}
	}
	res.Total = total(res, opts.Stdev)
	return res, nil
}

// ratioSeries pairs iterations by index when both sides iterated more than
// once, otherwise it compares means.
func ratioSeries(b, s *metrics.Entry) []float64 {
	bv, sv := b.Rates, s.Rates
	if b.HasScores() && s.HasScores() {
		bv, sv = b.Scores, s.Scores
	}
	if len(bv) > 1 && len(sv) > 1 {
		n := min(len(bv), len(sv))
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = ratio(sv[i], bv[i])
		}
		return out
	}
	return []float64{ratio(metrics.Mean(sv), metrics.Mean(bv))}
}

func ratio(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// outliers returns the benchmarks whose mean ratio lies more than
// OutlierSigma sample deviations below the mean of the remaining benchmarks,
// with the margin never narrower than OutlierMinSpread of that mean.
// Nothing is excluded below minOutlierSample benchmarks or when every
// benchmark would be excluded.
func outliers(res *Result) []string {
	if len(res.Order) < minOutlierSample {
		return nil
	}
	means := make([]float64, len(res.Order))
	for i, name := range res.Order {
		means[i] = res.Entries[name].Mean()
	}

	var out []string
	others := make([]float64, 0, len(means)-1)
	for i, name := range res.Order {
		others = others[:0]
		others = append(others, means[:i]...)
		others = append(others, means[i+1:]...)
		mean := metrics.Mean(others)
		margin := max(OutlierSigma*metrics.StdDev(others), OutlierMinSpread*math.Abs(mean))
		threshold := mean - margin
		if means[i] < threshold {
			out = append(out, name)
		}
	}
	if len(out) == len(res.Order) {
		return nil
	}
	return out
}

// total averages the ratios of the non-excluded benchmarks per iteration.
func total(res *Result, withStdev bool) *Entry {
	var kept []*Entry
	for _, name := range res.Order {
		if e := res.Entries[name]; !e.Outlier {
			kept = append(kept, e)
		}
	}
	n := len(kept[0].Ratios)
	for _, e := range kept[1:] {
		n = min(n, len(e.Ratios))
	}
	ratios := make([]float64, n)
	for i := range ratios {
		var sum float64
		for _, e := range kept {
			sum += e.Ratios[i]
		}
		ratios[i] = sum / float64(len(kept))
	}
	return &Entry{Name: metrics.TotalKey, Ratios: ratios, Summary: metrics.Summarize(ratios, withStdev)}
}
