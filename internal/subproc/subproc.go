// SPDX-License-Identifier: MPL-2.0

// Package subproc runs the external tools the wrappers delegate to and
// reports their exit status. It is the only place child processes are
// started from; every wrapper builds an Invocation and hands it here.
package subproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type (
	// Invocation contains everything needed to run one external tool.
	Invocation struct {
		// Argv is the full command line; Argv[0] is the executable.
		Argv []string
		// Dir overrides the working directory when set.
		Dir string
		// Env is the base environment; nil means the current process
		// environment.
		Env []string
		// DropEnv lists variable names removed from the base environment
		// before ExtraEnv is applied.
		DropEnv []string
		// ExtraEnv is appended last and overrides the base environment.
		ExtraEnv map[string]string
		// Stdin, Stdout and Stderr wire the child's streams. Nil values
		// fall back to the wrapper's own streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Context cancels the child when done. Nil means background.
		Context context.Context
	}

	// Result is the outcome of a single invocation.
	Result struct {
		// ExitCode is the child's exit status.
		ExitCode ExitCode
		// Error is set only when the child could not be run at all; a
		// child that ran and exited non-zero yields a nil Error.
		Error error
		// Output and ErrOutput hold captured streams for RunCapture.
		Output    string
		ErrOutput string
	}
)

// Success reports whether the child ran and exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Run executes the invocation with stdio wired through, returning the
// child's exit status. Start failures (executable missing, permission
// denied) surface as ExitCode 1 with the underlying error attached.
func Run(inv *Invocation) *Result {
	cmd, err := command(inv)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	cmd.Stdin = orStdin(inv.Stdin)
	cmd.Stdout = orStdout(inv.Stdout)
	cmd.Stderr = orStderr(inv.Stderr)

	return wait(cmd)
}

// RunCapture executes the invocation with stdout and stderr buffered.
// The gsutil wrapper needs the raw stderr to recognize credential
// failures, so captured output is returned even on error.
func RunCapture(inv *Invocation) *Result {
	cmd, err := command(inv)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = orStdin(inv.Stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := wait(cmd)
	res.Output = stdout.String()
	res.ErrOutput = stderr.String()
	return res
}

func command(inv *Invocation) (*exec.Cmd, error) {
	if len(inv.Argv) == 0 {
		return nil, errors.New("empty argument vector")
	}

	ctx := inv.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = BuildEnv(inv.Env, inv.DropEnv, inv.ExtraEnv)
	return cmd, nil
}

func wait(cmd *exec.Cmd) *Result {
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: ExitCode(exitErr.ExitCode())}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to run %s: %w", cmd.Path, err)}
	}
	return &Result{ExitCode: 0}
}

func orStdin(r io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return os.Stdin
}

func orStdout(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return os.Stdout
}

func orStderr(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return os.Stderr
}

// BuildEnv assembles a child environment from a base (nil means the
// current environment), a drop list, and overriding extras.
func BuildEnv(base []string, drop []string, extra map[string]string) []string {
	if base == nil {
		base = os.Environ()
	}

	dropped := make(map[string]bool, len(drop))
	for _, name := range drop {
		dropped[name] = true
	}

	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		name, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, overridden := extra[name]; overridden || dropped[name] {
				continue
			}
		}
		out = append(out, kv)
	}
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}
