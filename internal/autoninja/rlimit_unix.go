// SPDX-License-Identifier: MPL-2.0

//go:build darwin || linux

package autoninja

import "golang.org/x/sys/unix"

// RaiseFileLimit lifts the NOFILE soft limit to the hard limit and
// returns the resulting soft limit. Default limits (256 on macOS, 1024
// on most Linux distributions) are far too low for a large -j and cause
// "Too many open files" failures mid-build.
func RaiseFileLimit() uint64 {
	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return 0
	}
	if lim.Cur < lim.Max {
		// Best effort; the current limit is re-read either way.
		_ = unix.Setrlimit(unix.RLIMIT_NOFILE, &unix.Rlimit{Cur: lim.Max, Max: lim.Max})
		if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
			return 0
		}
	}
	return uint64(lim.Cur)
}

// Nice lowers the process priority; the niceness is inherited by the
// build tool spawned later.
func Nice(increment int) {
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, increment)
}
