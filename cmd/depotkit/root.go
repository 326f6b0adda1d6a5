// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for depotkit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/config"
	"depotkit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables diagnostic output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, defaults when loading failed.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "depotkit",
		Short: "Build and storage wrappers for gclient checkouts",
		Long: TitleStyle.Render("depotkit") + SubtitleStyle.Render(" - build and storage wrappers for gclient checkouts") + `

depotkit bundles the thin wrappers a Chromium-style checkout needs:
the vpython3 launcher shim with its bypass filter, ninja and autoninja
with remote-execution plumbing, siso under a reproxy lifecycle, and a
pinned, verified gsutil.

` + SubtitleStyle.Render("Examples:") + `
  depotkit autoninja -C out/Default chrome   Build with computed parallelism
  depotkit vpython3 script.py                Run under the managed interpreter
  depotkit gsutil ls gs://bucket             Pinned gsutil with LUCI auth
  depotkit config show                       Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/depotkit/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(vpythonCmd)
	rootCmd.AddCommand(ninjaCmd)
	rootCmd.AddCommand(autoninjaCmd)
	rootCmd.AddCommand(autosisoCmd)
	rootCmd.AddCommand(gsutilCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(tempfileCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	loaded, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Bad config never blocks a build; warn and continue on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded != nil {
		cfg = loaded
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the glamour-rendered guidance for a known failure
// class to stderr.
func renderIssue(id issue.Id) {
	if rendered, err := issue.Get(id).Render("dark"); err == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
