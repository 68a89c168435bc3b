package project

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// PidLock guarantees at-most-one writer for a project root on the same
// host: a file holding the owning process's PID, reused if the recorded
// PID is no longer live.
type PidLock struct {
	fs       afero.Fs
	path     string
	released bool
}

// AcquirePidLock acquires the lock file at path, writing the current
// process's PID. A pre-existing file naming a still-live PID fails
// acquisition; a stale file (PID gone, or unparseable) is reused.
func AcquirePidLock(fs afero.Fs, path string) (*PidLock, error) {
	if exists, err := afero.Exists(fs, path); err != nil {
		return nil, fmt.Errorf("project: checking pid lock %s: %w", path, err)
	} else if exists {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("project: reading pid lock %s: %w", path, err)
		}

		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			if processAlive(pid) {
				return nil, fmt.Errorf("project: could not acquire PID lock %s: held by live process %d", path, pid)
			}
		}
		// Unparseable or stale: fall through and reuse the file.
	}

	if err := afero.WriteFile(fs, path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("project: writing pid lock %s: %w", path, err)
	}

	return &PidLock{fs: fs, path: path}, nil
}

// Release deletes the lock file. Safe to call more than once.
func (l *PidLock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true
	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("project: releasing pid lock %s: %w", l.path, err)
	}
	return nil
}
