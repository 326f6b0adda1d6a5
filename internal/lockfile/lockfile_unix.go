// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package lockfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryLock opens the lock file and takes a non-blocking exclusive flock.
// Closing any descriptor for the file can release the process's locks,
// so the lock is released explicitly before the close.
func tryLock(lockPath string) (func() error, error) {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unix.Flock(fd, unix.LOCK_UN)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}
