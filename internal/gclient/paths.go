// SPDX-License-Identifier: MPL-2.0

// Package gclient discovers the layout of a gclient-managed checkout:
// the root holding the .gclient file, the primary solution directory,
// and the buildtools directory that pinned binaries live under.
package gclient

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
)

// gclientFile marks the root of a managed checkout.
const gclientFile = ".gclient"

// solutionName extracts the first solution name from a .gclient file.
// The file is Python syntax; a full parse is not worth it for one key.
var solutionName = regexp.MustCompile(`["']name["']\s*:\s*["']([^"']+)["']`)

// FindRoot walks up from dir looking for a .gclient file and returns the
// directory containing it, or "" when dir is not inside a checkout.
func FindRoot(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		if fileExists(filepath.Join(dir, gclientFile)) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// PrimarySolutionPath returns the directory of the checkout's first
// solution (typically <root>/src), or "" when it cannot be determined.
func PrimarySolutionPath(dir string) string {
	root := FindRoot(dir)
	if root == "" {
		return ""
	}

	if data, err := os.ReadFile(filepath.Join(root, gclientFile)); err == nil {
		if m := solutionName.FindSubmatch(data); m != nil {
			p := filepath.Join(root, string(m[1]))
			if dirExists(p) {
				return p
			}
		}
	}

	// Chromium-shaped checkouts keep the solution in src/.
	if p := filepath.Join(root, "src"); dirExists(p) {
		return p
	}
	return ""
}

// BuildtoolsPath returns the buildtools directory of the checkout
// containing dir, or "" when there is none.
func BuildtoolsPath(dir string) string {
	primary := PrimarySolutionPath(dir)
	if primary == "" {
		return ""
	}
	p := filepath.Join(primary, "buildtools")
	if dirExists(p) {
		return p
	}
	return ""
}

// ExeSuffix returns the executable suffix for the host platform.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
