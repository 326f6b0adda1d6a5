// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depotkit/internal/autoninja"
	"depotkit/internal/gclient"
	"depotkit/internal/gnargs"
	"depotkit/internal/issue"
	"depotkit/internal/ninja"
	"depotkit/internal/reclient"
	"depotkit/internal/subproc"
)

var autoninjaCmd = &cobra.Command{
	Use:   "autoninja [args...]",
	Short: "Run the right build tool with the right parallelism",
	Long: `Run ninja or siso for the current output directory, picking the
build tool and the job count from the GN arguments and the checkout,
and wrapping the build in the reproxy lifecycle when reclient is in
use. All arguments are forwarded to the build tool.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAutoninja(args)
	},
}

func runAutoninja(args []string) error {
	// --no-caffeinate is ours alone; peel it off before the scan.
	noCaffeinate := false
	kept := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--no-caffeinate" {
			noCaffeinate = true
			continue
		}
		kept = append(kept, arg)
	}
	args = kept

	opts := autoninja.ParseOptions(args)
	if opts.HelpRequested {
		printAutoninjaHelp()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root := gclient.FindRoot(cwd)
	primary := ""
	if root != "" {
		primary = gclient.PrimarySolutionPath(root)
	}

	outDir := opts.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cwd, outDir)
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		renderIssue(issue.OutputDirInvalidId)
		return &ExitError{Code: 1, Err: fmt.Errorf("output directory %q does not exist", opts.OutputDir)}
	}

	var gnCfg autoninja.GNConfig
	if gnargs.Exists(outDir) {
		parsed, err := gnargs.Args(primary, outDir)
		if err != nil {
			return &ExitError{Code: 1, Err: issue.WrapWithContext(err, "read build arguments", filepath.Join(outDir, "args.gn"))}
		}
		gnCfg = autoninja.ReadGNConfig(parsed)
	}

	useSiso, err := chooseBuildTool(gnCfg, primary, outDir)
	if err != nil {
		return err
	}

	useRemoteexec := gnCfg.UseRemoteexec && !opts.Offline
	useReclient := false
	switch {
	case gnCfg.UseReclient != nil:
		useReclient = *gnCfg.UseReclient && gnCfg.UseRemoteexec
	case gnCfg.UseRemoteexec:
		defaults := autoninja.ReadRemoteexecDefaults(primary)
		if useSiso {
			useReclient = defaults.UseReclientOnSiso
		} else {
			useReclient = defaults.UseReclientOnNinja
		}
	}

	toolArgs := autoninja.StripOffline(args)

	// Siso schedules its own parallelism; only a user-supplied -j is
	// translated, never an injected one.
	cores := runtime.NumCPU()
	if useSiso && opts.JobsFlag != "" {
		toolArgs = autoninja.ConvertJToSisoFlags(opts.JobsFlag, useRemoteexec, cores, toolArgs, os.Stderr)
	} else if computedJobsNeeded(useSiso, opts) {
		addition := intFromEnv("NINJA_CORE_ADDITION", cfg.Ninja.CoreAddition)
		params := autoninja.JobsParams{
			Cores:          cores,
			GOOS:           runtime.GOOS,
			Machine:        runtime.GOARCH,
			CoreMultiplier: intFromEnv("NINJA_CORE_MULTIPLIER", cfg.Ninja.CoreMultiplier),
			CoreLimit:      intFromEnv("NINJA_CORE_LIMIT", cfg.Ninja.CoreLimit),
			CoreAddition:   &addition,
			FDLimit:        autoninja.RaiseFileLimit(),
		}
		jobs := autoninja.LocalJobs(params)
		if useRemoteexec {
			jobs = autoninja.RemoteJobs(params)
		}
		log.Debug("computed job count", "jobs", jobs, "remote", useRemoteexec)
		toolArgs = append(toolArgs, "-j", strconv.Itoa(jobs))
	}

	var argv []string
	if useSiso {
		bin := findSiso(root, primary)
		if bin == "" {
			renderIssue(issue.NinjaNotFoundId)
			return &ExitError{Code: 1, Err: errors.New("siso not found")}
		}
		argv = sisoArgv(bin, opts, useRemoteexec, useReclient, toolArgs)
	} else {
		bin := findNinja()
		if bin == "" {
			renderIssue(issue.NinjaNotFoundId)
			return &ExitError{Code: 1, Err: errors.New("ninja not found")}
		}
		argv = append([]string{bin}, toolArgs...)
	}

	extraEnv := map[string]string{}
	if opts.Offline && useReclient {
		extraEnv["RBE_remote_disabled"] = "1"
	}

	summarize := cfg.Ninja.Summarize || os.Getenv("NINJA_SUMMARIZE_BUILD") == "1"
	if summarize && !useSiso {
		argv = append(argv, "-d", "stats")
	}

	if runtime.GOOS == "darwin" && !noCaffeinate {
		fmt.Fprintln(os.Stderr, WarningStyle.Render(
			"Running the build under caffeinate to keep the machine awake; pass --no-caffeinate to opt out."))
		argv = append([]string{"caffeinate"}, argv...)
	}

	if summarize {
		fmt.Fprintln(os.Stderr, VerboseStyle.Render(subproc.QuoteCommand(argv, runtime.GOOS)))
	}

	if os.Getenv("NINJA_BUILD_IN_BACKGROUND") == "1" {
		autoninja.Nice(10)
	}

	build := func() *subproc.Result {
		return subproc.Run(&subproc.Invocation{
			Argv:     argv,
			ExtraEnv: extraEnv,
			DropEnv:  ninja.DropEnvFor(runtime.GOOS),
		})
	}

	if useReclient {
		proxy := reclient.NewProxy(gclient.BuildtoolsPath(primary))
		if proxy == nil {
			renderIssue(issue.ReclientNotConfiguredId)
			return &ExitError{Code: 1, Err: errors.New("reclient is enabled but not present in this checkout")}
		}
		return exitFromResult(proxy.Run(build))
	}
	return exitFromResult(build())
}

// chooseBuildTool resolves the ninja-or-siso decision against the output
// directory's markers. Siso writes a .ninja_log of its own, so a
// .ninja_log only counts as a ninja build when .siso_deps is absent.
func chooseBuildTool(gnCfg autoninja.GNConfig, sourceRoot, outDir string) (useSiso bool, err error) {
	sisoBuilt := fileExists(autoninja.SisoMarkerPath(outDir))
	ninjaBuilt := fileExists(autoninja.NinjaMarkerPath(outDir)) && !sisoBuilt

	if gnCfg.UseSiso == nil {
		useSiso = autoninja.UseSisoDefault(sourceRoot, outDir)
		if useSiso && ninjaBuilt {
			// Not an error: an existing ninja build keeps working, but the
			// checkout wants siso for fresh output directories.
			fmt.Fprintln(os.Stderr, WarningStyle.Render(
				"This output directory was built with ninja. New output directories default to siso; run gn clean to switch."))
			return false, nil
		}
		return useSiso, nil
	}

	useSiso = *gnCfg.UseSiso
	if (useSiso && ninjaBuilt) || (!useSiso && sisoBuilt) {
		renderIssue(issue.BuildToolConflictId)
		return false, &ExitError{Code: 1, Err: fmt.Errorf(
			"%s was built with a different build tool; run gn clean first", outDir)}
	}
	return useSiso, nil
}

// computedJobsNeeded reports whether autoninja should inject its own
// -j. Siso schedules its own parallelism, the ninja tools (-t) are
// incompatible with -j, and a user-supplied -j always wins.
func computedJobsNeeded(useSiso bool, opts autoninja.Options) bool {
	return !useSiso && opts.JobsFlag == "" && !opts.ToolFlag
}

// sisoArgv assembles the siso command line. Under reclient, reproxy
// supplies the backend, so the project and reapi instance flags are
// passed empty for siso to fill from its environment; without remote
// execution siso must be pinned to offline mode or it would try its
// default remote backend.
func sisoArgv(bin string, opts autoninja.Options, useRemoteexec, useReclient bool, toolArgs []string) []string {
	argv := []string{bin, "ninja"}
	if useReclient {
		project := ""
		if opts.ProjectSet {
			project = opts.Project
		}
		argv = append(argv, "-project="+project, "-reapi_instance=")
	} else {
		if opts.ProjectSet {
			argv = append(argv, "-project="+opts.Project)
		}
		if !useRemoteexec {
			argv = append(argv, "--offline")
		}
	}
	return append(argv, toolArgs...)
}

// findSiso locates the checkout's siso binary under third_party, falling
// back to PATH with the wrapper's own directory skipped.
func findSiso(root, primary string) string {
	name := "siso" + gclient.ExeSuffix()
	for _, base := range []string{primary, root} {
		if base == "" {
			continue
		}
		candidate := filepath.Join(base, "third_party", "siso", "cipd", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	selfDir := ""
	if exe, err := os.Executable(); err == nil {
		selfDir = filepath.Dir(exe)
	}
	if path, err := subproc.LookPathSkipping("siso", selfDir); err == nil {
		return path
	}
	return ""
}

// intFromEnv reads an integer override from the environment, keeping the
// configured fallback when the variable is unset or malformed.
func intFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func printAutoninjaHelp() {
	fmt.Fprintln(os.Stderr, SubtitleStyle.Render(
		"autoninja flags: -o/--offline disables remote execution, --no-caffeinate skips the macOS sleep guard, --project overrides the RBE project. Everything else is forwarded."))
}
