//go:build !windows

package project

import "syscall"

// processAlive reports whether pid names a live process, using the
// kill-with-signal-0 idiom: the signal is never actually delivered, only
// the existence/permission check it implies.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return err == syscall.EPERM
}
