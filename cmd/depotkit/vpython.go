// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/gclient"
	"depotkit/internal/issue"
	"depotkit/internal/subproc"
	"depotkit/internal/vpython"
)

// vpythonCmd forwards everything to the managed interpreter, so cobra
// must not interpret the arguments.
var vpythonCmd = &cobra.Command{
	Use:                "vpython3 [args...]",
	Aliases:            []string{"vpython"},
	Short:              "Run a script under the managed Python interpreter",
	Long: `Run a script under the managed vpython3 interpreter.

When the ` + vpython.BypassEnv + ` environment variable carries the
exact opt-out marker, the managed interpreter is skipped and the system
python3 runs instead, with vpython-specific arguments filtered out of
the command line.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVPython(args)
	},
}

func runVPython(args []string) error {
	if vpython.ModeFromEnv(os.Getenv(vpython.BypassEnv)) == vpython.ModeBypass {
		filtered, aborted := vpython.Filter(args)
		if !aborted {
			python := cfg.VPython.BypassPython.String()
			if python == "" {
				python = "python3"
			}
			log.Debug("vpython bypass active", "python", python, "args", filtered)
			return exitFromResult(subproc.Run(&subproc.Invocation{
				Argv: append([]string{python}, filtered...),
			}))
		}
		// A vpython tool invocation cannot run without the real vpython;
		// ignore the bypass and fall through with the arguments intact.
		log.Debug("vpython bypass aborted by tool flag")
	}

	bin := resolveManagedVPython()
	if bin == "" {
		renderIssue(issue.VPythonNotFoundId)
		return &ExitError{Code: 1, Err: errors.New("vpython3 not found")}
	}

	log.Debug("running managed vpython", "bin", bin)
	return exitFromResult(subproc.Run(&subproc.Invocation{
		Argv: append([]string{bin}, args...),
	}))
}

// resolveManagedVPython finds the real vpython3 launcher: explicit
// config first, then a sibling of the wrapper binary, then PATH with the
// wrapper's own directory skipped.
func resolveManagedVPython() string {
	if p := cfg.VPython.ManagedPath.String(); p != "" {
		return p
	}

	selfDir := ""
	if exe, err := os.Executable(); err == nil {
		selfDir = filepath.Dir(exe)
		sibling := filepath.Join(selfDir, "vpython3"+gclient.ExeSuffix())
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling
		}
	}

	if path, err := subproc.LookPathSkipping("vpython3", selfDir); err == nil {
		return path
	}
	return ""
}
