// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the runtime.GOOS string literals used for
// platform-specific behavior, so call sites compare against named
// constants instead of scattered magic strings.
package platform
