//go:build !linux && !darwin && !windows

package host

// processStart is not available here; entries are checked by liveness only.
func processStart(pid int) string {
	return ""
}
