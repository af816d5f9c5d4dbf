package benchmark

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/workloads"
)

// ErrConfig is wrapped by every configuration error. Configuration errors are
// reported before any benchmark runs.
var ErrConfig = errors.New("invalid benchmark configuration")

// Definition is one named benchmark of a suite. Nil pointers and zero values
// mean "unset".
type Definition struct {
	Name      string
	Func      workloads.Func
	Expected  any
	Reference time.Duration
	QuickArg  *int
	NormalArg *int
}

// Suite is an ordered set of benchmark definitions with unique names.
type Suite []Definition

// Validate checks that the suite is non-empty, that names are unique and not
// reserved result keys, and that every definition has a workload function.
func (s Suite) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no benchmarks defined", ErrConfig)
	}
	seen := make(map[string]bool, len(s))
	for i, def := range s {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("%w: benchmark %d has no name", ErrConfig, i+1)
		}
		if def.Name == metrics.TotalKey || def.Name == metrics.OptionsKey {
			return fmt.Errorf("%w: benchmark name %q is reserved", ErrConfig, def.Name)
		}
		if def.Func == nil {
			return fmt.Errorf("%w: benchmark %q has no workload function", ErrConfig, def.Name)
		}
		if seen[def.Name] {
			return fmt.Errorf("%w: duplicate benchmark name %q", ErrConfig, def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}

// Names returns the benchmark names in suite order.
func (s Suite) Names() []string {
	names := make([]string, len(s))
	for i, def := range s {
		names[i] = def.Name
	}
	return names
}

// Select returns the benchmarks whose names match include (when set) and do
// not match exclude (when set), keeping suite order.
func Select(s Suite, include, exclude string) (Suite, error) {
	inc, err := compilePattern("include", include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePattern("exclude", exclude)
	if err != nil {
		return nil, err
	}
	selected := make(Suite, 0, len(s))
	for _, def := range s {
		if inc != nil && !inc.MatchString(def.Name) {
			continue
		}
		if exc != nil && exc.MatchString(def.Name) {
			continue
		}
		selected = append(selected, def)
	}
	return selected, nil
}

func compilePattern(kind, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrConfig, kind, pattern, err)
	}
	return re, nil
}

// FromWorkload builds a definition from a registered workload's defaults.
func FromWorkload(w workloads.Workload) Definition {
	return Definition{
		Name:      w.Name,
		Func:      w.Func,
		Expected:  w.Expected,
		Reference: w.Reference,
		QuickArg:  w.QuickArg,
		NormalArg: w.NormalArg,
	}
}

// SuiteFromConfig resolves the configured benchmarks against the workload
// registry. With no benchmarks configured every registered workload is used.
func SuiteFromConfig(cfg appconfig.Config) (Suite, error) {
	if len(cfg.Benchmarks) == 0 {
		all := workloads.All()
		suite := make(Suite, 0, len(all))
		for _, w := range all {
			suite = append(suite, FromWorkload(w))
		}
		return validated(suite)
	}

	suite := make(Suite, 0, len(cfg.Benchmarks))
	for i, b := range cfg.Benchmarks {
		if strings.TrimSpace(b.Code) != "" {
			return nil, fmt.Errorf("%w: benchmark %d defines a code string; workloads must be registered Go functions", ErrConfig, i+1)
		}
		w, ok := workloads.Lookup(strings.TrimSpace(b.Workload))
		if !ok {
			return nil, fmt.Errorf("%w: benchmark %d uses unknown workload %q", ErrConfig, i+1, b.Workload)
		}
		def := FromWorkload(w)
		def.Name = b.BenchmarkName()
		if b.Reference != nil {
			def.Reference = time.Duration(*b.Reference * float64(time.Second))
		}
		if b.Expected != nil {
			def.Expected = b.Expected
		}
		if b.QuickArg != nil {
			def.QuickArg = b.QuickArg
		}
		if b.NormalArg != nil {
			def.NormalArg = b.NormalArg
		}
		suite = append(suite, def)
	}
	return validated(suite)
}

func validated(s Suite) (Suite, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
