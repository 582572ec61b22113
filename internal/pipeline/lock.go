package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the root directory for the duration of a run.
const LockFileName = ".rawconv.lock"

// ErrLocked is returned when another run holds the root directory lock.
var ErrLocked = errors.New("another rawconv run is using this directory")

// acquireLock takes a non-blocking exclusive lock on root. The lock file is
// left in place after Unlock.
func acquireLock(root string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(root, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}
