// SPDX-License-Identifier: MPL-2.0

package subproc

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestRunPropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a POSIX shell")
	}
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   ExitCode
	}{
		{name: "success", script: "exit 0", want: 0},
		{name: "generic failure", script: "exit 1", want: 1},
		{name: "arbitrary code", script: "exit 42", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Run(&Invocation{Argv: []string{"sh", "-c", tt.script}})
			if res.Error != nil {
				t.Fatalf("Run returned error: %v", res.Error)
			}
			if res.ExitCode != tt.want {
				t.Errorf("exit code = %d, want %d", res.ExitCode, tt.want)
			}
		})
	}
}

func TestRunStartFailure(t *testing.T) {
	t.Parallel()

	res := Run(&Invocation{Argv: []string{filepath.Join(t.TempDir(), "no-such-binary")}})
	if res.Error == nil {
		t.Fatal("expected an error for a missing executable")
	}
	if res.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode)
	}
	if res.Success() {
		t.Error("Success() = true for a failed start")
	}
}

func TestRunEmptyArgv(t *testing.T) {
	t.Parallel()

	res := Run(&Invocation{})
	if res.Error == nil || res.ExitCode != 1 {
		t.Errorf("Run(empty) = (%d, %v), want code 1 and an error", res.ExitCode, res.Error)
	}
}

func TestRunCapture(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a POSIX shell")
	}
	t.Parallel()

	res := RunCapture(&Invocation{Argv: []string{"sh", "-c", "echo out; echo err >&2; exit 3"}})
	if res.Error != nil {
		t.Fatalf("RunCapture returned error: %v", res.Error)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if got := strings.TrimSpace(res.Output); got != "out" {
		t.Errorf("stdout = %q, want %q", got, "out")
	}
	if got := strings.TrimSpace(res.ErrOutput); got != "err" {
		t.Errorf("stderr = %q, want %q", got, "err")
	}
}

func TestBuildEnv(t *testing.T) {
	t.Parallel()

	base := []string{"KEEP=1", "DROPPED=x", "OVERRIDDEN=old"}

	got := BuildEnv(base, []string{"DROPPED"}, map[string]string{"OVERRIDDEN": "new", "ADDED": "y"})

	if slices.Contains(got, "DROPPED=x") {
		t.Error("dropped variable still present")
	}
	if slices.Contains(got, "OVERRIDDEN=old") {
		t.Error("overridden variable kept its old value")
	}
	for _, want := range []string{"KEEP=1", "OVERRIDDEN=new", "ADDED=y"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestBuildEnvNilBaseUsesProcessEnv(t *testing.T) {
	t.Setenv("SUBPROC_TEST_SENTINEL", "present")

	got := BuildEnv(nil, nil, nil)
	if !slices.Contains(got, "SUBPROC_TEST_SENTINEL=present") {
		t.Error("process environment not used as base")
	}
}

func TestLookPathSkipping(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	wrapperDir := t.TempDir()
	realDir := t.TempDir()
	for _, dir := range []string{wrapperDir, realDir} {
		p := filepath.Join(dir, "sometool")
		if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", wrapperDir+string(os.PathListSeparator)+realDir)

	got, err := LookPathSkipping("sometool", wrapperDir)
	if err != nil {
		t.Fatalf("LookPathSkipping: %v", err)
	}
	if want := filepath.Join(realDir, "sometool"); got != want {
		t.Errorf("LookPathSkipping = %q, want %q (wrapper dir must be skipped)", got, want)
	}

	if _, err := LookPathSkipping("sometool", realDir); err != nil {
		t.Errorf("unexpected error when only the other dir is skipped: %v", err)
	}

	if _, err := LookPathSkipping("missingtool", ""); err == nil {
		t.Error("expected an error for a tool not on PATH")
	}
}

func TestQuoteCommandPosix(t *testing.T) {
	t.Parallel()

	got := QuoteCommand([]string{"ninja", "-C", "out/My Dir", "chrome"}, "linux")
	if !strings.Contains(got, "'out/My Dir'") && !strings.Contains(got, `out/My\ Dir`) {
		t.Errorf("space-containing arg not quoted: %q", got)
	}
	if !strings.HasPrefix(got, "ninja -C ") {
		t.Errorf("plain args must stay unquoted: %q", got)
	}
}

func TestQuoteCommandWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "plain", want: "plain"},
		{arg: "has space", want: `"has space"`},
		{arg: "", want: `""`},
		{arg: "a&b", want: "a^&b"},
	}

	for _, tt := range tests {
		if got := QuoteCommand([]string{tt.arg}, "windows"); got != tt.want {
			t.Errorf("QuoteCommand(%q, windows) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}
