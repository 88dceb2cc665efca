//go:build !windows

package sched

import (
	"os"
	"syscall"
)

// processAlive reports whether a process with the given PID exists.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 doesn't send anything, it just checks existence.
	return process.Signal(syscall.Signal(0)) == nil
}
