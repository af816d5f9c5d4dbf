//go:build linux

package hostinfo

import "golang.org/x/sys/unix"

// platformCPUs counts the CPUs in this process's affinity mask, which honours
// taskset and cgroup cpusets, and falls back to the runtime's count.
func platformCPUs() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtimeCPUs()
	}
	return set.Count(), nil
}
