// Package report renders aggregate and scalability results for humans and
// exports them for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/scalability"
	"github.com/mwiater/corebench/internal/util"
)

// Output formats understood by Write and WriteScalability.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const nameWidth = 16

// Options controls rendering. Quiet suppresses all output.
type Options struct {
	Quiet  bool
	Color  bool
	Format string
	// Stdev adds the relative standard deviation column.
	Stdev bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled reports whether f is a terminal that should receive colour.
func ColorEnabled(f *os.File) bool {
	return os.Getenv("NO_COLOR") == "" && IsTerminal(f)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type palette struct {
	pass, fail, warn *color.Color
	styled           bool
}

func newPalette(enabled bool) palette {
	p := palette{
		pass:   color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow),
		styled: enabled,
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// cell left-aligns text in a fixed-width column.
func cell(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(util.TruncateRunes(text, width-1))
}

// Write renders an aggregate result.
func Write(w io.Writer, res *metrics.Result, opts Options) error {
	if opts.Quiet || res == nil {
		return nil
	}
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		return encodeJSON(w, res)
	case FormatYAML:
		return encodeYAML(w, res)
	case "", FormatText:
		return writeTable(w, res, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

func writeTable(w io.Writer, res *metrics.Result, opts Options) error {
	p := newPalette(opts.Color)
	score := res.Opt.Mode == metrics.ModeScore
	multi := res.Opt.Iterations > 1
	unit := "time (s)"
	if score {
		unit = "score"
	}

	var b strings.Builder
	b.WriteString(p.style(titleStyle, fmt.Sprintf("corebench %s", res.Opt.RunID)))
	b.WriteByte('\n')
	b.WriteString(p.style(mutedStyle, fmt.Sprintf("%d workers, %d iterations, scale %d, %s mode", res.Opt.Workers, res.Opt.Iterations, res.Opt.Scale, res.Opt.Mode)))
	b.WriteString("\n\n")

	header := []string{cell("benchmark", nameWidth), cell(unit, 14)}
	if multi {
		header = append(header, cell("min", 14), cell("max", 14))
		if opts.Stdev {
			header = append(header, cell("rel stdev", 11))
		}
	}
	header = append(header, cell("check", 8))
	b.WriteString(p.style(headerStyle, strings.Join(header, "")))
	b.WriteByte('\n')

	rows := append(append([]string(nil), res.Names()...), metrics.TotalKey)
	for _, name := range rows {
		e := res.Total
		if name != metrics.TotalKey {
			e = res.Entries[name]
		}
		series, stats := e.Times, e.TimeStats
		if score {
			series, stats = e.Scores, e.ScoreStats
		}
		row := []string{cell(name, nameWidth), cell(formatValue(metrics.Mean(series), score), 14)}
		if multi {
			var s metrics.Summary
			if stats != nil {
				s = *stats
			}
			row = append(row, cell(formatValue(s.Min, score), 14), cell(formatValue(s.Max, score), 14))
			if opts.Stdev {
				row = append(row, cell(fmt.Sprintf("%.2f%%", 100*s.RelStdev), 11))
			}
		}
		if name != metrics.TotalKey {
			row = append(row, p.verdict(e))
		}
		b.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		b.WriteByte('\n')
	}

	if failed, errored := res.Failures(); failed > 0 || errored > 0 {
		b.WriteByte('\n')
		b.WriteString(p.warn.Sprintf("%d verification failures, %d errors", failed, errored))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (p palette) verdict(e *metrics.Entry) string {
	switch {
	case e.Errors > 0:
		return p.fail.Sprint("ERROR")
	case e.Failed > 0:
		return p.fail.Sprint("FAIL")
	case e.Passed > 0:
		return p.pass.Sprint("PASS")
	default:
		return "-"
	}
}

func formatValue(v float64, score bool) string {
	if score {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.6f", v)
}

// WriteScalability renders a scalability comparison. A comparison that is not
// meaningful prints a notice instead of ratios.
func WriteScalability(w io.Writer, res *scalability.Result, opts Options) error {
	if opts.Quiet || res == nil {
		return nil
	}
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		return encodeJSON(w, res)
	case FormatYAML:
		return encodeYAML(w, res)
	case "", FormatText:
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}

	p := newPalette(opts.Color)
	var b strings.Builder
	b.WriteString(p.style(titleStyle, fmt.Sprintf("scalability: %d vs %d workers", res.ScaledWorkers, res.BaselineWorkers)))
	b.WriteByte('\n')
	if !res.Meaningful {
		b.WriteString(p.warn.Sprintf("not meaningful: scaled run uses %d workers, baseline %d", res.ScaledWorkers, res.BaselineWorkers))
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteByte('\n')

	multi := len(res.Total.Ratios) > 1
	header := []string{cell("benchmark", nameWidth), cell("ratio", 10)}
	if multi {
		header = append(header, cell("min", 10), cell("max", 10))
		if opts.Stdev {
			header = append(header, cell("rel stdev", 11))
		}
	}
	b.WriteString(p.style(headerStyle, strings.Join(header, "")))
	b.WriteByte('\n')

	rows := append(append([]string(nil), res.Order...), metrics.TotalKey)
	for _, name := range rows {
		e := res.Total
		if name != metrics.TotalKey {
			e = res.Entries[name]
		}
		row := []string{cell(name, nameWidth), cell(fmt.Sprintf("%.2f", e.Mean()), 10)}
		if multi {
			row = append(row, cell(fmt.Sprintf("%.2f", e.Summary.Min), 10), cell(fmt.Sprintf("%.2f", e.Summary.Max), 10))
			if opts.Stdev {
				row = append(row, cell(fmt.Sprintf("%.2f%%", 100*e.Summary.RelStdev), 11))
			}
		}
		if e.Outlier {
			row = append(row, p.warn.Sprint("outlier"))
		}
		b.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		b.WriteByte('\n')
	}
	if len(res.Missing) > 0 {
		b.WriteString(p.style(mutedStyle, "missing from one run: "+strings.Join(res.Missing, ", ")))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
