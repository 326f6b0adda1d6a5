// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	tempfilePrefix string
	tempfileSuffix string

	tempfileCmd = &cobra.Command{
		Use:   "tempfile",
		Short: "Spool stdin to a temp file and print its path",
		Long: `Copy standard input to a freshly created temporary file and print
the file's path, for shell hooks that need stdin as a file argument.`,
		Example: `  some-producer | depotkit tempfile --suffix .json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTempfile(cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}
)

func init() {
	tempfileCmd.Flags().StringVar(&tempfilePrefix, "prefix", "tmp", "temp file name prefix")
	tempfileCmd.Flags().StringVar(&tempfileSuffix, "suffix", "", "temp file name suffix")
}

func runTempfile(out io.Writer, in io.Reader) error {
	f, err := os.CreateTemp("", tempfilePrefix+"*"+tempfileSuffix)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("create temp file: %w", err)}
	}
	if _, err := io.Copy(f, in); err != nil {
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)
		return &ExitError{Code: 1, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := f.Close(); err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("close temp file: %w", err)}
	}

	fmt.Fprintln(out, f.Name())
	return nil
}
