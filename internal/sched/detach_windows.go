//go:build windows

package sched

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachAttr detaches the waiter from the parent's console so it survives
// the parent exiting and never pops a window.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
