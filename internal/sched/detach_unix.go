//go:build !windows

package sched

import "syscall"

// detachAttr puts the waiter in its own session so it survives the parent
// exiting and ignores the parent's terminal signals.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}
