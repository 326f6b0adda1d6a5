// SPDX-License-Identifier: MPL-2.0

package gsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsLUCIContext(t *testing.T) {
	t.Parallel()

	writeContext := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "luci_context.json")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("swarming headless", func(t *testing.T) {
		t.Parallel()

		if !IsLUCIContext(MapEnv(map[string]string{"SWARMING_HEADLESS": "1"})) {
			t.Error("SWARMING_HEADLESS=1 should count as a LUCI context")
		}
	})

	t.Run("context file with local_auth", func(t *testing.T) {
		t.Parallel()

		path := writeContext(t, `{"local_auth": {"default_account_id": "task"}}`)
		if !IsLUCIContext(MapEnv(map[string]string{"LUCI_CONTEXT": path})) {
			t.Error("context file with local_auth should be detected")
		}
	})

	t.Run("context file without local_auth", func(t *testing.T) {
		t.Parallel()

		path := writeContext(t, `{"swarming": {}}`)
		if IsLUCIContext(MapEnv(map[string]string{"LUCI_CONTEXT": path})) {
			t.Error("context file without local_auth must not be detected")
		}
	})

	t.Run("unreadable context file", func(t *testing.T) {
		t.Parallel()

		env := MapEnv(map[string]string{"LUCI_CONTEXT": filepath.Join(t.TempDir(), "absent")})
		if IsLUCIContext(env) {
			t.Error("missing context file must not be detected")
		}
	})

	t.Run("empty environment", func(t *testing.T) {
		t.Parallel()

		if IsLUCIContext(MapEnv(nil)) {
			t.Error("empty environment must not be detected")
		}
	})
}

func TestIsLUCIAuthSupported(t *testing.T) {
	t.Parallel()

	for goos, want := range map[string]bool{
		"linux":   true,
		"darwin":  true,
		"windows": true,
		"aix":     false,
		"zos":     false,
	} {
		if got := IsLUCIAuthSupported(goos); got != want {
			t.Errorf("IsLUCIAuthSupported(%q) = %v, want %v", goos, got, want)
		}
	}
}

func TestBotoPath(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	dotBoto := filepath.Join(home, ".boto")
	if err := os.WriteFile(dotBoto, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		env  map[string]string
		home string
		want string
	}{
		{
			name: "BOTO_CONFIG wins",
			env:  map[string]string{"BOTO_CONFIG": "/cfg/boto", "AWS_CREDENTIAL_FILE": "/cfg/aws"},
			home: home,
			want: "/cfg/boto",
		},
		{
			name: "AWS_CREDENTIAL_FILE next",
			env:  map[string]string{"AWS_CREDENTIAL_FILE": "/cfg/aws"},
			home: home,
			want: "/cfg/aws",
		},
		{
			name: "home dot boto",
			home: home,
			want: dotBoto,
		},
		{
			name: "nothing configured",
			home: t.TempDir(),
			want: "",
		},
		{
			name: "no home",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BotoPath(MapEnv(tt.env), tt.home); got != tt.want {
				t.Errorf("BotoPath = %q, want %q", got, tt.want)
			}
		})
	}
}
