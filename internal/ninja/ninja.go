// SPDX-License-Identifier: MPL-2.0

// Package ninja locates the ninja binary a checkout should build with.
// The bundled copy under third_party wins; a ninja on PATH is the
// fallback, skipping the wrapper's own directory so the wrapper never
// re-executes itself.
package ninja

import (
	"os"
	"path/filepath"

	"depotkit/internal/gclient"
	"depotkit/internal/subproc"
)

// DarwinDropEnv lists variables removed from ninja's environment on
// macOS. Homebrew and Xcode leak include paths through these and break
// hermetic builds.
var DarwinDropEnv = []string{"CPATH", "LIBRARY_PATH", "SDKROOT"}

// Find returns the ninja binary to use for a checkout. primaryPath and
// checkoutRoot may be empty outside a checkout; selfDir is the directory
// of the running wrapper and is skipped during the PATH fallback.
// Returns "" when no ninja exists anywhere.
func Find(checkoutRoot, primaryPath, selfDir string) string {
	exe := "ninja" + gclient.ExeSuffix()

	for _, base := range []string{primaryPath, checkoutRoot} {
		if base == "" {
			continue
		}
		candidate := filepath.Join(base, "third_party", "ninja", exe)
		if isExecutableFile(candidate) {
			return candidate
		}
	}

	if path, err := subproc.LookPathSkipping("ninja", selfDir); err == nil {
		return path
	}
	return ""
}

// DropEnvFor returns the variables to strip from ninja's child
// environment on the given platform.
func DropEnvFor(goos string) []string {
	if goos == "darwin" {
		return DarwinDropEnv
	}
	return nil
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
