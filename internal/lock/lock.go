package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrOperationInProgress is returned when the lock is held by another
// process for the whole acquisition window.
var ErrOperationInProgress = errors.New("another operation is in progress")

// errLocked is what the platform lockers return on contention.
var errLocked = errors.New("file is locked")

const retryInterval = 100 * time.Millisecond

// Lock is an exclusive advisory lock over the state directory. Exactly one
// apply, restore, or scheduled revert runs at a time; everything else waits
// briefly and then fails with ErrOperationInProgress.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the lock at path, retrying until timeout. A zero timeout
// means a single attempt. The lock file is created if needed and holds the
// owning pid for inspection.
func Acquire(path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		l, err := tryAcquire(path)
		if err == nil {
			return l, nil
		}
		if !errors.Is(err, errLocked) {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, ErrOperationInProgress
		}
		time.Sleep(retryInterval)
	}
}

func tryAcquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		f.Close()
		if errors.Is(err, errLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	// Record the holder for anyone inspecting the state directory.
	f.Truncate(0)
	f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)

	return &Lock{path: path, file: f}, nil
}

// Release unlocks and closes the lock file. The file itself stays on disk;
// removing it would race with a concurrent Acquire.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	if err := unlockFile(l.file); err != nil {
		l.file.Close()
		l.file = nil
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	err := l.file.Close()
	l.file = nil
	return err
}
