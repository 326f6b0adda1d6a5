// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/autoninja"
	"depotkit/internal/gclient"
	"depotkit/internal/issue"
	"depotkit/internal/reclient"
	"depotkit/internal/subproc"
)

var autosisoCmd = &cobra.Command{
	Use:   "autosiso [args...]",
	Short: "Run siso under a managed reproxy session",
	Long: `Run siso with reclient: start reproxy, run
"siso ninja" against the checkout's RBE project, and shut reproxy down
afterwards regardless of the build's outcome.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAutosiso(args)
	},
}

func runAutosiso(args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root := gclient.FindRoot(cwd)
	primary := ""
	if root != "" {
		primary = gclient.PrimarySolutionPath(root)
	}

	bin := findSiso(root, primary)
	if bin == "" {
		renderIssue(issue.NinjaNotFoundId)
		return &ExitError{Code: 1, Err: errors.New("siso not found")}
	}

	proxy := reclient.NewProxy(gclient.BuildtoolsPath(primary))
	if proxy == nil {
		renderIssue(issue.ReclientNotConfiguredId)
		return &ExitError{Code: 1, Err: errors.New("reclient is not present in this checkout")}
	}

	project := autoninja.SisoRBEProject(os.Getenv("SISO_PROJECT"), primary)
	argv := []string{bin, "ninja", "-project=" + project, "-reapi_instance=default_instance"}
	argv = append(argv, args...)

	log.Debug("running siso under reproxy", "bin", bin, "project", project)
	return exitFromResult(proxy.Run(func() *subproc.Result {
		return subproc.Run(&subproc.Invocation{Argv: argv})
	}))
}
