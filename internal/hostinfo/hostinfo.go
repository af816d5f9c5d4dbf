// Package hostinfo discovers host properties used to pick default worker
// counts.
package hostinfo

import "runtime"

// DefaultCPUs is returned when the logical CPU count cannot be detected.
const DefaultCPUs = 1

// detect is the platform-specific probe, swapped in tests.
var detect = platformCPUs

// LogicalCPUs returns the number of logical CPUs available to this process,
// or DefaultCPUs when detection fails.
func LogicalCPUs() int {
	n, err := detect()
	if err != nil || n < 1 {
		return DefaultCPUs
	}
	return n
}

func runtimeCPUs() (int, error) {
	return runtime.NumCPU(), nil
}
