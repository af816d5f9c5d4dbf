// internal/tui/progress_test.go
package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/corebench/internal/metrics"
)

func TestUpdate(t *testing.T) {
	m := newModel(2, 2, 1)

	next, _ := m.Update(iterationMsg(1))
	m = next.(model)
	if m.iteration != 1 {
		t.Fatalf("expected iteration 1, got %d", m.iteration)
	}

	next, _ = m.Update(stepMsg{iteration: 1, name: "fib", ok: true})
	m = next.(model)
	next, _ = m.Update(stepMsg{iteration: 1, name: "sieve", ok: false})
	m = next.(model)
	if m.done != 2 || m.failed != 1 || m.current != "sieve" {
		t.Fatalf("unexpected state after steps: %+v", m)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("expected 50%% progress, got %v", got)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(model)
	if m.bar.Width != 76 {
		t.Fatalf("expected bar width 76, got %d", m.bar.Width)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}

	next, cmd = m.Update(doneMsg{})
	m = next.(model)
	if cmd == nil || !m.finished {
		t.Fatalf("expected done to finish the model")
	}
}

func TestDurationModeTracksCurrentIteration(t *testing.T) {
	m := newModel(2, 0, 1)
	for i := 1; i <= 3; i++ {
		next, _ := m.Update(iterationMsg(i))
		m = next.(model)
		next, _ = m.Update(stepMsg{iteration: i, name: "fib", ok: true})
		m = next.(model)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("expected progress within the current iteration, got %v", got)
	}
}

func TestConsecutiveRunsShareTheBar(t *testing.T) {
	m := newModel(2, 1, 2)
	for _, name := range []string{"fib", "sieve"} {
		next, _ := m.Update(stepMsg{iteration: 1, name: name, ok: true})
		m = next.(model)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("expected 50%% after the first run, got %v", got)
	}
	next, _ := m.Update(iterationMsg(1))
	m = next.(model)
	for _, name := range []string{"fib", "sieve"} {
		next, _ = m.Update(stepMsg{iteration: 1, name: name, ok: true})
		m = next.(model)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("expected 100%% after both runs, got %v", got)
	}
}

func TestView(t *testing.T) {
	m := newModel(1, 3, 1)
	next, _ := m.Update(iterationMsg(2))
	m = next.(model)
	next, _ = m.Update(stepMsg{iteration: 2, name: "matmul", ok: false})
	m = next.(model)

	view := m.View()
	for _, want := range []string{"iteration 2/3", "matmul", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q: %q", want, view)
		}
	}

	m.finished = true
	if view := m.View(); view != "" {
		t.Fatalf("expected empty view once finished, got %q", view)
	}
}

func TestProgressLifecycle(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, 1, 1, 1)
	p.Start()
	p.IterationStarted(1)
	p.OutcomeRecorded(metrics.Outcome{Benchmark: "fib"})
	p.BenchmarkFinished(1, "fib", metrics.Fold{OK: true})
	p.IterationFinished(1)
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
