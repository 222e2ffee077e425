package host

import (
	"bytes"
	"os"
	"strconv"
	"strings"
)

// processStart returns the start time of pid in clock ticks since boot, read
// from /proc/<pid>/stat. It returns "" when the process cannot be read.
func processStart(pid int) string {
	if pid <= 0 {
		return ""
	}
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return ""
	}
	// comm (field 2) may contain spaces; fields after it start at state.
	i := bytes.LastIndexByte(data, ')')
	if i < 0 {
		return ""
	}
	fields := strings.Fields(string(data[i+1:]))
	const startTime = 22 - 3
	if len(fields) <= startTime {
		return ""
	}
	return fields[startTime]
}
