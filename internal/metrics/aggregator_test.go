package metrics

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func outcomes(name string, elapsed ...time.Duration) []Outcome {
	out := make([]Outcome, len(elapsed))
	for i, d := range elapsed {
		out[i] = Outcome{Benchmark: name, Worker: i + 1, Elapsed: d, Value: i + 1}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestFoldSingleWorkerTimeIsExact(t *testing.T) {
	agg := NewAggregator(RunOptions{Workers: 1})
	agg.BeginIteration()
	f := agg.Fold("a", 0, outcomes("a", 1234567*time.Microsecond))
	agg.EndIteration()

	if f.AvgTime != (1234567 * time.Microsecond).Seconds() {
		t.Fatalf("average time %v, want exact single elapsed time", f.AvgTime)
	}
	res := agg.Result()
	if got := res.Entries["a"].Times[0]; got != f.AvgTime {
		t.Fatalf("stored time %v, want %v", got, f.AvgTime)
	}
}

func TestFoldScoresAreSummedOverWorkers(t *testing.T) {
	const workers = 4
	ref := 2 * time.Second
	elapsed := 500 * time.Millisecond

	agg := NewAggregator(RunOptions{Workers: workers, Mode: ModeScore})
	agg.BeginIteration()
	ds := make([]time.Duration, workers)
	for i := range ds {
		ds[i] = elapsed
	}
	f := agg.Fold("a", ref, outcomes("a", ds...))
	agg.EndIteration()

	perWorker := 1000 * ref.Seconds() / elapsed.Seconds()
	if !almostEqual(f.Score, workers*perWorker) {
		t.Fatalf("score %v, want %v", f.Score, workers*perWorker)
	}
	if !almostEqual(f.AvgTime, elapsed.Seconds()) {
		t.Fatalf("average time %v, want %v", f.AvgTime, elapsed.Seconds())
	}
	if !almostEqual(f.Rate, workers/elapsed.Seconds()) {
		t.Fatalf("rate %v", f.Rate)
	}
}

func TestTotalsPerMode(t *testing.T) {
	for _, mode := range []Mode{ModeScore, ModeTime} {
		agg := NewAggregator(RunOptions{Workers: 1, Mode: mode})
		agg.BeginIteration()
		agg.Fold("a", time.Second, outcomes("a", time.Second))
		agg.Fold("b", time.Second, outcomes("b", 3*time.Second))
		agg.EndIteration()
		res := agg.Result()

		if !almostEqual(res.Total.Times[0], 2) {
			t.Fatalf("%s: total time %v, want average 2", mode, res.Total.Times[0])
		}
		switch mode {
		case ModeScore:
			if !almostEqual(res.Total.Scores[0], 1000+1000.0/3) {
				t.Fatalf("total score %v", res.Total.Scores[0])
			}
		case ModeTime:
			if res.Total.Scores != nil {
				t.Fatalf("time mode should not carry total scores: %v", res.Total.Scores)
			}
		}
	}
}

func TestFailedWorkersAreDiscarded(t *testing.T) {
	agg := NewAggregator(RunOptions{Workers: 3, Mode: ModeScore})
	agg.BeginIteration()
	outs := outcomes("a", time.Second, 10*time.Second, 3*time.Second)
	outs[1].Err = errors.New("boom")
	outs[2].Verdict = VerdictFail
	outs[0].Verdict = VerdictPass
	f := agg.Fold("a", time.Second, outs)
	agg.EndIteration()

	if !almostEqual(f.AvgTime, 2) {
		t.Fatalf("average time %v, want 2 with failed worker discarded", f.AvgTime)
	}
	e := agg.Result().Entries["a"]
	if e.Errors != 1 || e.Failed != 1 || e.Passed != 1 {
		t.Fatalf("counters: %+v", e)
	}
	if e.Values[1] != nil {
		t.Fatalf("failed worker should leave a nil value, got %v", e.Values[1])
	}
}

func TestAllWorkersFailedIsLeftOutOfTotalTime(t *testing.T) {
	agg := NewAggregator(RunOptions{Workers: 1, Mode: ModeTime})
	agg.BeginIteration()
	agg.Fold("a", 0, outcomes("a", 4*time.Second))
	bad := outcomes("b", time.Second)
	bad[0].Err = errors.New("boom")
	f := agg.Fold("b", 0, bad)
	agg.EndIteration()

	if f.OK {
		t.Fatalf("expected fold to report failure")
	}
	res := agg.Result()
	if !almostEqual(res.Total.Times[0], 4) {
		t.Fatalf("total time %v, want 4", res.Total.Times[0])
	}
	if len(res.Entries["b"].Times) != 1 {
		t.Fatalf("failed benchmark must still record one value per iteration")
	}
}

func TestSummariesAcrossIterations(t *testing.T) {
	agg := NewAggregator(RunOptions{Workers: 1, Mode: ModeScore, Stdev: true})
	for _, d := range []time.Duration{time.Second, 2 * time.Second, 3 * time.Second} {
		agg.BeginIteration()
		agg.Fold("a", time.Second, outcomes("a", d))
		agg.EndIteration()
	}
	res := agg.Result()
	e := res.Entries["a"]
	if res.Opt.Iterations != 3 {
		t.Fatalf("iterations %d", res.Opt.Iterations)
	}
	if e.TimeStats == nil || e.TimeStats.Min != 1 || e.TimeStats.Max != 3 || !almostEqual(e.TimeStats.Mean, 2) {
		t.Fatalf("time stats %+v", e.TimeStats)
	}
	if !almostEqual(e.TimeStats.RelStdev, 0.5) {
		t.Fatalf("relative stdev %v, want 0.5", e.TimeStats.RelStdev)
	}
	if res.Total.ScoreStats == nil {
		t.Fatalf("expected total score stats")
	}
}

func TestUnfinishedIterationIsDropped(t *testing.T) {
	agg := NewAggregator(RunOptions{Workers: 1, Mode: ModeScore})
	agg.BeginIteration()
	agg.Fold("a", time.Second, outcomes("a", time.Second))
	agg.Fold("b", time.Second, outcomes("b", time.Second))
	agg.EndIteration()
	agg.BeginIteration()
	agg.Fold("a", time.Second, outcomes("a", time.Second))

	res := agg.Result()
	if res.Opt.Iterations != 1 {
		t.Fatalf("iterations %d, want 1", res.Opt.Iterations)
	}
	for _, name := range res.Names() {
		if n := len(res.Entries[name].Times); n != 1 {
			t.Fatalf("%s has %d times, want 1", name, n)
		}
	}
}

func TestResolveMode(t *testing.T) {
	refs := []time.Duration{time.Second, time.Second}
	if ResolveMode(false, false, refs) != ModeScore {
		t.Fatalf("expected score mode with all references")
	}
	if ResolveMode(true, false, refs) != ModeTime {
		t.Fatalf("quick mode must report times")
	}
	if ResolveMode(false, true, refs) != ModeTime {
		t.Fatalf("forced time mode")
	}
	if ResolveMode(false, false, []time.Duration{time.Second, 0}) != ModeTime {
		t.Fatalf("missing reference must report times")
	}
}

func TestResultEncodingKeepsOrderAndReservedKeys(t *testing.T) {
	agg := NewAggregator(RunOptions{RunID: "r1", Workers: 1, Mode: ModeScore})
	agg.BeginIteration()
	agg.Fold("zeta", time.Second, outcomes("zeta", time.Second))
	agg.Fold("alpha", time.Second, outcomes("alpha", time.Second))
	agg.EndIteration()
	res := agg.Result()

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if strings.Index(s, `"zeta"`) > strings.Index(s, `"alpha"`) {
		t.Fatalf("expected run order preserved: %s", s)
	}
	for _, key := range []string{TotalKey, OptionsKey} {
		if !strings.Contains(s, `"`+key+`"`) {
			t.Fatalf("missing %s in %s", key, s)
		}
	}

	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Opt.RunID != "r1" || len(decoded.Entries) != 2 || decoded.Total.Scores[0] != 2000 {
		t.Fatalf("decoded result: %+v", decoded)
	}

	out, err := yaml.Marshal(res)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.HasPrefix(string(out), "zeta:") {
		t.Fatalf("expected yaml to start with first benchmark, got %s", out)
	}
}
