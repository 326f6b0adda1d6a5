// SPDX-License-Identifier: MPL-2.0

package ninja

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func placeNinja(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "ninja")
	if runtime.GOOS == "windows" {
		path += ".exe"
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindPrefersPrimarySolution(t *testing.T) {
	root := t.TempDir()
	primary := filepath.Join(root, "src")
	want := placeNinja(t, filepath.Join(primary, "third_party", "ninja"))
	placeNinja(t, filepath.Join(root, "third_party", "ninja"))

	t.Setenv("PATH", t.TempDir())
	if got := Find(root, primary, t.TempDir()); got != want {
		t.Errorf("Find = %q, want primary solution's %q", got, want)
	}
}

func TestFindFallsBackToCheckoutRoot(t *testing.T) {
	root := t.TempDir()
	want := placeNinja(t, filepath.Join(root, "third_party", "ninja"))

	t.Setenv("PATH", t.TempDir())
	if got := Find(root, filepath.Join(root, "src"), t.TempDir()); got != want {
		t.Errorf("Find = %q, want checkout root's %q", got, want)
	}
}

func TestFindFallsBackToPathSkippingSelf(t *testing.T) {
	selfDir := t.TempDir()
	placeNinja(t, selfDir)
	otherDir := t.TempDir()
	want := placeNinja(t, otherDir)

	t.Setenv("PATH", selfDir+string(os.PathListSeparator)+otherDir)
	if got := Find("", "", selfDir); got != want {
		t.Errorf("Find = %q, want %q from PATH past the wrapper dir", got, want)
	}
}

func TestFindNothing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if got := Find("", "", t.TempDir()); got != "" {
		t.Errorf("Find = %q, want empty when no ninja exists", got)
	}
}

func TestDropEnvFor(t *testing.T) {
	t.Parallel()

	if got := DropEnvFor("darwin"); !slices.Equal(got, DarwinDropEnv) {
		t.Errorf("DropEnvFor(darwin) = %v", got)
	}
	if got := DropEnvFor("linux"); got != nil {
		t.Errorf("DropEnvFor(linux) = %v, want nil", got)
	}
}
