//go:build !linux

package hostinfo

func platformCPUs() (int, error) {
	return runtimeCPUs()
}
