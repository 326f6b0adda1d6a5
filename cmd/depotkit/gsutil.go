// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/gsutil"
	"depotkit/internal/issue"
	"depotkit/internal/subproc"
)

var gsutilCmd = &cobra.Command{
	Use:   "gsutil [args...]",
	Short: "Run a pinned, verified gsutil",
	Long: `Run the pinned gsutil release, downloading and md5-verifying it on
first use, with authentication routed through luci-auth.

Wrapper flags (everything else goes to gsutil itself):
  --clean          discard the installed copy and reinstall
  --target <dir>   install under <dir> instead of next to the wrapper`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGsutil(args)
	},
}

// gsutilFlags is what the wrapper consumes before handing off. The
// deprecated flags are still accepted so old invocations keep working,
// but they no longer do anything.
type gsutilFlags struct {
	Clean  bool
	Target string
	Rest   []string
}

func parseGsutilFlags(args []string) gsutilFlags {
	var flags gsutilFlags
	skipNext := false
	for i, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case arg == "--clean":
			flags.Clean = true
		case arg == "--target":
			if i+1 < len(args) {
				flags.Target = args[i+1]
				skipNext = true
			}
		case len(arg) > len("--target=") && arg[:len("--target=")] == "--target=":
			flags.Target = arg[len("--target="):]
		case arg == "--force-version" || arg == "--fallback":
			// Deprecated; the version is pinned and there is no fallback
			// copy anymore. Swallow the value too.
			skipNext = i+1 < len(args)
		default:
			flags.Rest = append(flags.Rest, arg)
		}
	}
	return flags
}

func runGsutil(args []string) error {
	flags := parseGsutilFlags(args)

	selfDir := ""
	if exe, err := os.Executable(); err == nil {
		selfDir = filepath.Dir(exe)
	}

	target := flags.Target
	if target == "" {
		target = cfg.Gsutil.BinDir.String()
	}
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
	bin, err := installer.Ensure(flags.Clean)
	if err != nil {
		if errors.Is(err, gsutil.ErrInvalidArchive) {
			renderIssue(issue.GsutilCorruptedId)
		}
		return &ExitError{Code: 1, Err: issue.WrapWithContext(err, "install gsutil", target)}
	}
	log.Debug("gsutil installed", "bin", bin)

	session := newGsutilSession(bin, selfDir)
	code := session.Exec(flags.Rest)
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func newGsutilSession(bin, selfDir string) *gsutil.Session {
	spec := ""
	if selfDir != "" {
		candidate := filepath.Join(selfDir, "gsutil.vpython3")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			spec = candidate
		}
	}
	home, _ := os.UserHomeDir()
	return &gsutil.Session{
		Bin:        bin,
		SpecPath:   spec,
		VPython:    resolveManagedVPython(),
		GOOS:       runtime.GOOS,
		Env:        os.Getenv,
		Home:       home,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Run:        subproc.Run,
		RunCapture: subproc.RunCapture,
	}
}
