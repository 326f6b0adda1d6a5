// SPDX-License-Identifier: MPL-2.0

package gclient

import (
	"os"
	"path/filepath"
	"testing"
)

// makeCheckout builds a minimal gclient checkout under a temp dir and
// returns its root.
func makeCheckout(t *testing.T, gclientContent string, dirs ...string) string {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gclient"), []byte(gclientContent), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	root := makeCheckout(t, `solutions = [{"name": "src"}]`, "src/deep/nested")

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "at the root", dir: root, want: root},
		{name: "inside the solution", dir: filepath.Join(root, "src"), want: root},
		{name: "deeply nested", dir: filepath.Join(root, "src", "deep", "nested"), want: root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FindRoot(tt.dir); got != tt.want {
				t.Errorf("FindRoot(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestFindRootOutsideCheckout(t *testing.T) {
	t.Parallel()

	if got := FindRoot(t.TempDir()); got != "" {
		t.Errorf("FindRoot outside a checkout = %q, want empty", got)
	}
}

func TestPrimarySolutionPath(t *testing.T) {
	t.Parallel()

	t.Run("named solution", func(t *testing.T) {
		t.Parallel()

		root := makeCheckout(t, `solutions = [{"name": "chromium", "url": "..."}]`, "chromium")
		if got, want := PrimarySolutionPath(root), filepath.Join(root, "chromium"); got != want {
			t.Errorf("PrimarySolutionPath = %q, want %q", got, want)
		}
	})

	t.Run("falls back to src", func(t *testing.T) {
		t.Parallel()

		root := makeCheckout(t, `solutions = []`, "src")
		if got, want := PrimarySolutionPath(root), filepath.Join(root, "src"); got != want {
			t.Errorf("PrimarySolutionPath = %q, want %q", got, want)
		}
	})

	t.Run("no solution dir", func(t *testing.T) {
		t.Parallel()

		root := makeCheckout(t, `solutions = []`)
		if got := PrimarySolutionPath(root); got != "" {
			t.Errorf("PrimarySolutionPath = %q, want empty", got)
		}
	})

	t.Run("outside a checkout", func(t *testing.T) {
		t.Parallel()

		if got := PrimarySolutionPath(t.TempDir()); got != "" {
			t.Errorf("PrimarySolutionPath = %q, want empty", got)
		}
	})
}

func TestBuildtoolsPath(t *testing.T) {
	t.Parallel()

	root := makeCheckout(t, `solutions = [{"name": "src"}]`, "src/buildtools")
	if got, want := BuildtoolsPath(filepath.Join(root, "src")), filepath.Join(root, "src", "buildtools"); got != want {
		t.Errorf("BuildtoolsPath = %q, want %q", got, want)
	}

	bare := makeCheckout(t, `solutions = [{"name": "src"}]`, "src")
	if got := BuildtoolsPath(bare); got != "" {
		t.Errorf("BuildtoolsPath without buildtools dir = %q, want empty", got)
	}
}
