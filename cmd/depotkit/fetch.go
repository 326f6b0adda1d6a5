// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/gsutil"
	"depotkit/internal/issue"
	"depotkit/internal/subproc"
)

var (
	fetchBucket string
	fetchFile   string
	fetchOutput string
	fetchBoto   string

	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Download a single object from Google Storage",
		Long: `Download one object from a Google Storage bucket using the pinned
gsutil, suitable for hook scripts that need a deterministic fetch.`,
		Example: `  depotkit fetch --bucket chromium-clang --file clang.tar.xz --output /tmp/clang.tar.xz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch()
		},
	}
)

func init() {
	fetchCmd.Flags().StringVar(&fetchBucket, "bucket", "", "Google Storage bucket name")
	fetchCmd.Flags().StringVar(&fetchFile, "file", "", "object path within the bucket")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "local destination path")
	fetchCmd.Flags().StringVar(&fetchBoto, "boto", "", "boto credential file to use")
	_ = fetchCmd.MarkFlagRequired("bucket")
	_ = fetchCmd.MarkFlagRequired("file")
	_ = fetchCmd.MarkFlagRequired("output")
}

func runFetch() error {
	selfDir := ""
	if exe, err := os.Executable(); err == nil {
		selfDir = filepath.Dir(exe)
	}
	target := cfg.Gsutil.BinDir.String()
	if target == "" {
		target = selfDir
	}
	if target == "" {
		return &ExitError{Code: 1, Err: errors.New("no install target for gsutil")}
	}

	installer := &gsutil.Installer{
		Version: cfg.Gsutil.Version.String(),
		Target:  target,
	}
	bin, err := installer.Ensure(false)
	if err != nil {
		if errors.Is(err, gsutil.ErrInvalidArchive) {
			renderIssue(issue.GsutilCorruptedId)
		}
		return &ExitError{Code: 1, Err: issue.WrapWithContext(err, "install gsutil", target)}
	}

	session := newGsutilSession(bin, selfDir)
	url := fmt.Sprintf("gs://%s/%s", fetchBucket, fetchFile)
	argv := session.Command([]string{"cp", url, fetchOutput})

	extraEnv := map[string]string{}
	if fetchBoto != "" {
		extraEnv["BOTO_CONFIG"] = fetchBoto
	}
	// gsutil resumes partial downloads through temp files; pin the temp
	// directory so hooks behave the same across environments.
	if runtime.GOOS != "windows" {
		extraEnv["TMPDIR"] = "/tmp"
		extraEnv["TEMP"] = "/tmp"
		extraEnv["TMP"] = "/tmp"
	}

	log.Debug("fetching object", "url", url, "output", fetchOutput)
	return exitFromResult(subproc.Run(&subproc.Invocation{
		Argv:     argv,
		ExtraEnv: extraEnv,
	}))
}
