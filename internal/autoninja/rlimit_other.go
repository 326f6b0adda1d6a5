// SPDX-License-Identifier: MPL-2.0

//go:build !darwin && !linux

package autoninja

// RaiseFileLimit is a no-op where RLIMIT_NOFILE does not apply.
func RaiseFileLimit() uint64 { return 0 }

// Nice is a no-op where setpriority is unavailable.
func Nice(increment int) {}
