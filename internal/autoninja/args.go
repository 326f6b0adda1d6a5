// SPDX-License-Identifier: MPL-2.0

// Package autoninja decides how a build should run: which build tool
// (ninja or siso), whether remote execution is active, and what job
// count to use. All decisions are pure functions over the argument
// vector, the GN arguments, and a few filesystem markers, so the cobra
// command stays a thin assembly layer.
package autoninja

import "strings"

// Options is what autoninja itself understands of the argument vector.
// Everything else is forwarded to the build tool untouched. Ninja
// intermixes options and targets freely (getopt_long), so this is a
// plain scan rather than a flag parser.
type Options struct {
	// JobsFlag is the value of -j when given, kept as the original
	// string token.
	JobsFlag string
	// ToolFlag records a -t argument; the ninja tools are incompatible
	// with -j injection.
	ToolFlag bool
	// Offline disables remote execution for this build (-o/--offline).
	Offline bool
	// OutputDir is the -C argument, defaulting to ".".
	OutputDir string
	// Project is the RBE project override; ProjectSet distinguishes an
	// explicit empty value from no flag at all.
	Project    string
	ProjectSet bool
	// HelpRequested records -h/--help; the help text is printed but the
	// arguments still flow through to the build tool.
	HelpRequested bool
}

// ParseOptions scans args (without the program name) for the flags
// autoninja reacts to.
func ParseOptions(args []string) Options {
	opts := Options{OutputDir: "."}

	next := func(i int) string {
		if i+1 < len(args) {
			return args[i+1]
		}
		return ""
	}

	for i, arg := range args {
		if strings.HasPrefix(arg, "-j") {
			if arg == "-j" {
				opts.JobsFlag = next(i)
			} else {
				opts.JobsFlag = arg[2:]
			}
		}
		if strings.HasPrefix(arg, "-t") {
			opts.ToolFlag = true
		}

		switch {
		case arg == "-C":
			if v := next(i); v != "" {
				opts.OutputDir = v
			}
		case strings.HasPrefix(arg, "-C"):
			opts.OutputDir = arg[2:]
		case arg == "-o" || arg == "--offline":
			opts.Offline = true
		case arg == "--project" || arg == "-project":
			opts.Project = next(i)
			opts.ProjectSet = true
		case strings.HasPrefix(arg, "--project="):
			opts.Project = strings.TrimPrefix(arg, "--project=")
			opts.ProjectSet = true
		case strings.HasPrefix(arg, "-project="):
			opts.Project = strings.TrimPrefix(arg, "-project=")
			opts.ProjectSet = true
		case arg == "-h" || arg == "--help":
			opts.HelpRequested = true
		}
	}
	return opts
}

// StripOffline removes the flags only autoninja understands so the build
// tool never sees them.
func StripOffline(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-o" || arg == "--offline" {
			continue
		}
		out = append(out, arg)
	}
	return out
}
