package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// processStart returns the start time of pid as reported by sysctl, or ""
// when the process cannot be queried.
func processStart(pid int) string {
	if pid <= 0 {
		return ""
	}
	k, err := unix.SysctlKinfoProc("kern.proc.pid", pid)
	if err != nil || k.Proc.P_pid != int32(pid) {
		return ""
	}
	return fmt.Sprintf("%d.%06d", k.Proc.P_starttime.Sec, k.Proc.P_starttime.Usec)
}
