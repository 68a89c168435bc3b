//go:build windows

package project

import (
	"os"
)

// processAlive reports whether pid names a live process. On Windows this
// uses OpenProcess rather than a signal; failure to open is treated as
// "not alive" (a stale lock is reused).
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// os.FindProcess always succeeds on Unix-likes but on Windows actually
	// opens a handle; a nil proc here means the OS couldn't find it.
	return proc != nil
}
