// SPDX-License-Identifier: MPL-2.0

package gsutil

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"depotkit/internal/subproc"
)

const (
	notLoggedIn        = "Not logged in."
	invalidCredentials = "Your credentials are invalid."
)

// Session runs an installed gsutil with the right interpreter and
// authentication wrapping.
type Session struct {
	// Bin is the installed gsutil entry point from Installer.Ensure.
	Bin string
	// SpecPath is a vpython spec pinning gsutil's interpreter; skipped
	// when empty.
	SpecPath string
	// VPython is the interpreter wrapper to invoke; "vpython3" when empty.
	VPython string

	GOOS string
	Env  Env
	Home string

	Stdout io.Writer
	Stderr io.Writer

	// Run executes a command interactively; RunCapture buffers its
	// output so the wrapper can sniff auth failures. Both are swapped
	// in tests.
	Run        func(*subproc.Invocation) *subproc.Result
	RunCapture func(*subproc.Invocation) *subproc.Result
}

// Command assembles the gsutil invocation for args, pinning the
// interpreter and disabling gsutil's own update checks.
func (s *Session) Command(args []string) []string {
	vp := s.VPython
	if vp == "" {
		vp = "vpython3"
	}
	cmd := []string{vp}
	if s.SpecPath != "" {
		cmd = append(cmd, "-vpython-spec", s.SpecPath)
	}
	cmd = append(cmd, "--", s.Bin, "-o", "GSUtil:software_update_check_period=0")
	if s.GOOS == "darwin" {
		// gsutil's multiprocessing deadlocks on macOS.
		cmd = append(cmd, "-o", "GSUtil:parallel_process_count=1")
	}
	return append(cmd, args...)
}

// luciLoginCommand is the interactive login flow used in place of
// `gsutil config`.
func (s *Session) luciLoginCommand() []string {
	return []string{"luci-auth", "login", "-scopes", LUCIAuthScopes}
}

// luciContextCommand wraps cmd in a fresh luci-auth context.
func (s *Session) luciContextCommand(cmd []string) []string {
	wrapped := []string{"luci-auth", "context", "-scopes", LUCIAuthScopes, "--"}
	return append(wrapped, cmd...)
}

// Exec runs gsutil with args and returns its exit code. Authentication
// comes from the ambient LUCI context when there is one, from a
// luci-auth context wrapper otherwise, with a legacy .boto file as the
// deprecated fallback.
func (s *Session) Exec(args []string) subproc.ExitCode {
	// `gsutil config` would write its own credential file; route the
	// user to the supported login flow instead.
	if slices.Contains(args, "config") {
		return s.exitCode(s.Run(&subproc.Invocation{Argv: s.luciLoginCommand()}))
	}

	cmd := s.Command(args)

	if IsLUCIContext(s.Env) || !IsLUCIAuthSupported(s.GOOS) {
		return s.exitCode(s.Run(&subproc.Invocation{Argv: cmd}))
	}

	boto := BotoPath(s.Env, s.Home)

	res := s.RunCapture(&subproc.Invocation{Argv: s.luciContextCommand(cmd)})
	if !strings.Contains(res.ErrOutput, notLoggedIn) {
		s.flush(res)
		return s.exitCode(res)
	}

	if boto == "" {
		// No credentials anywhere; rerun interactively so the user sees
		// luci-auth's login instructions.
		return s.exitCode(s.Run(&subproc.Invocation{Argv: s.luciContextCommand(cmd)}))
	}

	fmt.Fprintf(s.Stderr,
		"WARNING: you are using a .boto file for authentication (%s). "+
			"This is deprecated; run `luci-auth login -scopes %q` instead.\n",
		boto, LUCIAuthScopes)

	res = s.RunCapture(&subproc.Invocation{
		Argv:     cmd,
		ExtraEnv: map[string]string{"BOTO_CONFIG": boto},
	})
	if strings.Contains(res.ErrOutput, invalidCredentials) {
		fmt.Fprintf(s.Stderr,
			"WARNING: the credentials in %s are invalid; delete the file or re-authenticate.\n",
			boto)
	}
	s.flush(res)
	return s.exitCode(res)
}

func (s *Session) flush(res *subproc.Result) {
	if res.Output != "" {
		_, _ = io.WriteString(s.Stdout, res.Output)
	}
	if res.ErrOutput != "" {
		_, _ = io.WriteString(s.Stderr, res.ErrOutput)
	}
}

func (s *Session) exitCode(res *subproc.Result) subproc.ExitCode {
	if res.Error != nil {
		fmt.Fprintf(s.Stderr, "gsutil: %v\n", res.Error)
	}
	return res.ExitCode
}
