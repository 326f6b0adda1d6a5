// SPDX-License-Identifier: MPL-2.0

// Package lockfile provides exclusive advisory file locking, used to
// serialize toolchain installs (e.g. the pinned gsutil download) across
// concurrent wrapper invocations.
package lockfile

import (
	"errors"
	"fmt"
	"time"
)

// ErrLocked is the sentinel error wrapped by LockError.
var ErrLocked = errors.New("file is locked")

// LockError reports a failure to acquire the lock within the timeout.
type LockError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *LockError) Error() string {
	return fmt.Sprintf("error locking %s (err: %v)", e.Path, e.Cause)
}

// Unwrap returns ErrLocked so callers can use errors.Is.
func (e *LockError) Unwrap() error { return ErrLocked }

// retrySleep is the pause between acquisition attempts.
const retrySleep = 100 * time.Millisecond

// Lock acquires an exclusive lock on path+".locked", retrying until
// timeout. The timeout covers only the sleeping between attempts, not
// the attempts themselves. The returned function releases the lock.
func Lock(path string, timeout time.Duration) (release func() error, err error) {
	lockPath := path + ".locked"
	var elapsed time.Duration
	for {
		release, err = tryLock(lockPath)
		if err == nil {
			return release, nil
		}
		if elapsed >= timeout {
			return nil, &LockError{Path: path, Cause: err}
		}
		elapsed += retrySleep
		time.Sleep(retrySleep)
	}
}
