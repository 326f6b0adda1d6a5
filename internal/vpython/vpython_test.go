// SPDX-License-Identifier: MPL-2.0

package vpython

import (
	"slices"
	"testing"
)

func TestModeFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  Mode
	}{
		{name: "exact marker enables bypass", value: BypassMarker, want: ModeBypass},
		{name: "unset stays managed", value: "", want: ModeManaged},
		{name: "truthy value stays managed", value: "1", want: ModeManaged},
		{name: "case differs stays managed", value: "Manually Managed Python Not Supported By Chrome Operations", want: ModeManaged},
		{name: "marker with trailing space stays managed", value: BypassMarker + " ", want: ModeManaged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ModeFromEnv(tt.value); got != tt.want {
				t.Errorf("ModeFromEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		want        []string
		wantAborted bool
	}{
		{
			name: "no vpython flags pass through unchanged",
			args: []string{"script.py", "--flag", "value", "-x"},
			want: []string{"script.py", "--flag", "value", "-x"},
		},
		{
			name: "empty input",
			args: []string{},
			want: []string{},
		},
		{
			name: "vpython flag drops itself and the next token",
			args: []string{"-vpython-foo", "bar", "baz"},
			want: []string{"baz"},
		},
		{
			name: "no-value vpython switch still consumes the following token",
			args: []string{"-vpython-log-level", "info", "script.py"},
			want: []string{"script.py"},
		},
		{
			name: "vpython flag at the end has no value to drop",
			args: []string{"script.py", "-vpython-foo"},
			want: []string{"script.py"},
		},
		{
			name: "double dash disables further filtering",
			args: []string{"a", "--", "-vpython-foo", "b"},
			want: []string{"a", "-vpython-foo", "b"},
		},
		{
			name: "double dash itself is not emitted",
			args: []string{"--", "x"},
			want: []string{"x"},
		},
		{
			name: "second double dash after stop is emitted verbatim",
			args: []string{"--", "--", "a"},
			want: []string{"--", "a"},
		},
		{
			name: "tool flag after double dash is ordinary",
			args: []string{"--", "-vpython-tool-install"},
			want: []string{"-vpython-tool-install"},
		},
		{
			name:        "tool flag aborts filtering",
			args:        []string{"-vpython-tool-install"},
			wantAborted: true,
		},
		{
			name:        "tool flag aborts regardless of position before double dash",
			args:        []string{"script.py", "arg", "-vpython-tool-verify", "--", "rest"},
			wantAborted: true,
		},
		{
			name:        "tool flag wins over a pending value drop",
			args:        []string{"-vpython-spec", "-vpython-tool-install"},
			wantAborted: true,
		},
		{
			name: "consecutive vpython flags",
			args: []string{"-vpython-a", "-vpython-b", "c", "d"},
			want: []string{"d"},
		},
		{
			name: "vpython spec and script",
			args: []string{"-vpython-spec", ".vpython3", "--", "gsutil", "ls"},
			want: []string{"gsutil", "ls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, aborted := Filter(tt.args)
			if aborted != tt.wantAborted {
				t.Fatalf("Filter(%q) aborted = %v, want %v", tt.args, aborted, tt.wantAborted)
			}
			if tt.wantAborted {
				if got != nil {
					t.Errorf("Filter(%q) returned %q on abort, want nil", tt.args, got)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	t.Parallel()

	// Filtering output that no longer contains vpython flags or a "--"
	// must be a fixed point.
	inputs := [][]string{
		{"-vpython-spec", "spec.vpython3", "script.py", "--flag"},
		{"a", "b", "c"},
		{"-vpython-foo", "bar"},
	}

	for _, in := range inputs {
		once, aborted := Filter(in)
		if aborted {
			t.Fatalf("Filter(%q) unexpectedly aborted", in)
		}
		twice, aborted := Filter(once)
		if aborted {
			t.Fatalf("second Filter(%q) unexpectedly aborted", once)
		}
		if !slices.Equal(once, twice) {
			t.Errorf("Filter not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
