package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/scalability"
)

func sampleResult() *metrics.Result {
	return &metrics.Result{
		Entries: map[string]*metrics.Entry{
			"fib":   {Name: "fib", Reference: 0.1, Times: []float64{0.05}, Scores: []float64{4000}, Rates: []float64{40}, Passed: 2},
			"sieve": {Name: "sieve", Reference: 0.1, Times: []float64{0.1}, Scores: []float64{2000}, Rates: []float64{20}, Failed: 1, Passed: 1},
		},
		Total: &metrics.Entry{Name: metrics.TotalKey, Times: []float64{0.075}, Scores: []float64{6000}, Rates: []float64{60}},
		Opt: metrics.RunOptions{
			RunID:      "01HZZZZZZZZZZZZZZZZZZZZZZZ",
			Benchmarks: []string{"fib", "sieve"},
			Iterations: 1,
			Workers:    2,
			Scale:      1,
			Mode:       metrics.ModeScore,
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"fib", "sieve", "_total", "4000.0", "6000.0", "PASS", "FAIL", "1 verification failures"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape sequences without colour:\n%q", out)
	}
	if strings.Index(out, "fib") > strings.Index(out, "sieve") {
		t.Fatalf("expected run order in output")
	}
}

func TestQuietWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), Options{Quiet: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := WriteScalability(&buf, &scalability.Result{}, Options{Quiet: true}); err != nil {
		t.Fatalf("WriteScalability: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("quiet mode produced output: %q", buf.String())
	}
}

func TestWriteJSONKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	fib, sieve, total, opt := strings.Index(out, `"fib"`), strings.Index(out, `"sieve"`), strings.Index(out, `"_total"`), strings.Index(out, `"_opt"`)
	if !(fib < sieve && sieve < total && total < opt) {
		t.Fatalf("unexpected key order: %s", out)
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleResult(), Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteScalability(t *testing.T) {
	res := &scalability.Result{
		Entries: map[string]*scalability.Entry{
			"fib":   {Name: "fib", Ratios: []float64{7.9}, Summary: metrics.Summary{Min: 7.9, Max: 7.9, Mean: 7.9}},
			"sieve": {Name: "sieve", Ratios: []float64{1.1}, Summary: metrics.Summary{Min: 1.1, Max: 1.1, Mean: 1.1}, Outlier: true},
		},
		Order:           []string{"fib", "sieve"},
		Total:           &scalability.Entry{Name: metrics.TotalKey, Ratios: []float64{7.9}, Summary: metrics.Summary{Min: 7.9, Max: 7.9, Mean: 7.9}},
		Excluded:        []string{"sieve"},
		BaselineWorkers: 1,
		ScaledWorkers:   8,
		Meaningful:      true,
	}
	var buf bytes.Buffer
	if err := WriteScalability(&buf, res, Options{}); err != nil {
		t.Fatalf("WriteScalability: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"8 vs 1 workers", "7.90", "1.10", "outlier", "_total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	res.Meaningful = false
	res.ScaledWorkers = 1
	buf.Reset()
	if err := WriteScalability(&buf, res, Options{}); err != nil {
		t.Fatalf("WriteScalability: %v", err)
	}
	if !strings.Contains(buf.String(), "not meaningful") || strings.Contains(buf.String(), "7.90") {
		t.Fatalf("expected not meaningful notice without ratios:\n%s", buf.String())
	}
}

func TestExportAndLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"run.json", "run.yaml"} {
		path := filepath.Join(dir, "out", name)
		if err := Export(path, sampleResult()); err != nil {
			t.Fatalf("Export %s: %v", name, err)
		}
		got, err := LoadResult(path)
		if err != nil {
			t.Fatalf("LoadResult %s: %v", name, err)
		}
		if got.Opt.RunID != "01HZZZZZZZZZZZZZZZZZZZZZZZ" || got.Opt.Workers != 2 {
			t.Fatalf("%s: unexpected options %+v", name, got.Opt)
		}
		if got.Entries["fib"].Scores[0] != 4000 || got.Total.Scores[0] != 6000 {
			t.Fatalf("%s: unexpected series", name)
		}
	}
}

func TestExportScalabilityJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scale.json")
	res := &scalability.Result{
		Entries:    map[string]*scalability.Entry{},
		Total:      &scalability.Entry{Ratios: []float64{2}},
		Meaningful: true,
	}
	if err := Export(path, res); err != nil {
		t.Fatalf("Export: %v", err)
	}
	loaded, err := LoadResult(path)
	if err == nil {
		t.Fatalf("expected scalability export not to decode as a run, got %+v", loaded)
	}
}
