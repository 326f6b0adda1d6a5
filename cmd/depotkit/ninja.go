// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/gclient"
	"depotkit/internal/issue"
	"depotkit/internal/ninja"
	"depotkit/internal/subproc"
)

var ninjaCmd = &cobra.Command{
	Use:                "ninja [args...]",
	Short:              "Run the checkout's bundled ninja",
	Long: `Run ninja, preferring the copy bundled in the checkout's
third_party directory over one found on PATH.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNinja(args)
	},
}

func runNinja(args []string) error {
	bin := findNinja()
	if bin == "" {
		renderIssue(issue.NinjaNotFoundId)
		return &ExitError{Code: 1, Err: errors.New("ninja not found")}
	}

	log.Debug("running ninja", "bin", bin)
	return exitFromResult(subproc.Run(&subproc.Invocation{
		Argv:    append([]string{bin}, args...),
		DropEnv: ninja.DropEnvFor(runtime.GOOS),
	}))
}

func findNinja() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	root := gclient.FindRoot(cwd)
	primary := ""
	if root != "" {
		primary = gclient.PrimarySolutionPath(root)
	}

	selfDir := ""
	if exe, err := os.Executable(); err == nil {
		selfDir = filepath.Dir(exe)
	}
	return ninja.Find(root, primary, selfDir)
}
