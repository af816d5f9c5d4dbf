// Package workloads defines the workload function contract and the
// built-in CPU workloads that ship with corebench.
package workloads

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"
)

// Input is handed to a workload for one invocation.
type Input struct {
	// Arg is the workload-size argument. Built-in workloads treat it as a
	// repetition count.
	Arg int
	// Worker is the 1-based index of the worker running this call.
	Worker int
	// Rand is the invocation's private random source. It is reseeded for
	// every call and never shared between workers.
	Rand *rand.Rand
}

// Func is a benchmark workload. The returned value is compared against the
// configured expected value when verification is enabled.
type Func func(ctx context.Context, in Input) (any, error)

// Workload describes a registered workload and its default benchmark settings.
type Workload struct {
	Name      string
	Summary   string
	Func      Func
	Reference time.Duration
	Expected  any
	QuickArg  *int
	NormalArg *int
}

var registry = map[string]Workload{}

// Register adds a workload to the registry, replacing any workload with the
// same name.
func Register(w Workload) {
	registry[w.Name] = w
}

// Lookup returns the registered workload with the given name.
func Lookup(name string) (Workload, bool) {
	w, ok := registry[name]
	return w, ok
}

// Names returns the sorted names of all registered workloads.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered workload sorted by name.
func All() []Workload {
	names := Names()
	out := make([]Workload, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

func intPtr(v int) *int { return &v }

// repetitions clamps a repetition count to at least one pass.
func repetitions(arg int) int {
	if arg < 1 {
		return 1
	}
	return arg
}
