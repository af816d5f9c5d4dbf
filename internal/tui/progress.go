// internal/tui/progress.go
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/corebench/internal/metrics"
)

const barPadding = 2

type iterationMsg int

type stepMsg struct {
	iteration int
	name      string
	ok        bool
}

type doneMsg struct{}

// model renders a progress bar over benchmark dispatches.
type model struct {
	bar        progress.Model
	benchmarks int
	iterations int
	runs       int
	iteration  int
	done       int
	failed     int
	current    string
	finished   bool
	width      int
}

// newModel creates a model for runs consecutive runs of benchmarks
// benchmarks each. iterations is zero when the runs are bounded by a duration
// budget, in which case the bar tracks the current iteration only.
func newModel(benchmarks, iterations, runs int) model {
	return model{
		bar:        progress.New(progress.WithDefaultGradient()),
		benchmarks: max(benchmarks, 1),
		iterations: iterations,
		runs:       max(runs, 1),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-barPadding*2, 10)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case iterationMsg:
		m.iteration = int(msg)
		if m.iterations == 0 {
			m.done = 0
		}
		return m, nil
	case stepMsg:
		m.done++
		m.current = msg.name
		if !msg.ok {
			m.failed++
		}
		return m, nil
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) percent() float64 {
	total := m.benchmarks
	if m.iterations > 0 {
		total *= m.iterations * m.runs
	}
	p := float64(m.done) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}

func (m model) View() string {
	if m.finished {
		return ""
	}
	pad := strings.Repeat(" ", barPadding)
	status := fmt.Sprintf("iteration %d", m.iteration)
	if m.iterations > 0 {
		status = fmt.Sprintf("iteration %d/%d", m.iteration, m.iterations)
	}
	if m.current != "" {
		status += "  " + m.current
	}
	if m.failed > 0 {
		status += lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(fmt.Sprintf("  %d failed", m.failed))
	}
	return "\n" + pad + status + "\n" + pad + m.bar.ViewAs(m.percent()) + "\n"
}

// Progress shows a live progress bar while a suite runs. It receives run
// events through the same methods as a run observer.
type Progress struct {
	program *tea.Program
	exited  chan error
}

// NewProgress creates a progress display writing to out for runs
// consecutive suite runs.
func NewProgress(out io.Writer, benchmarks, iterations, runs int) *Progress {
	return &Progress{
		program: tea.NewProgram(newModel(benchmarks, iterations, runs),
			tea.WithOutput(out), tea.WithInput(nil), tea.WithoutSignalHandler()),
		exited: make(chan error, 1),
	}
}

// Start runs the display in the background.
func (p *Progress) Start() {
	go func() {
		_, err := p.program.Run()
		p.exited <- err
	}()
}

// Stop clears the display and waits for it to exit.
func (p *Progress) Stop() error {
	p.program.Send(doneMsg{})
	return <-p.exited
}

func (p *Progress) IterationStarted(iteration int) { p.program.Send(iterationMsg(iteration)) }

func (p *Progress) OutcomeRecorded(metrics.Outcome) {}

func (p *Progress) BenchmarkFinished(iteration int, name string, f metrics.Fold) {
	p.program.Send(stepMsg{iteration: iteration, name: name, ok: f.OK})
}

func (p *Progress) IterationFinished(int) {}
