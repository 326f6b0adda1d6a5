// SPDX-License-Identifier: MPL-2.0

package autoninja

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"depotkit/internal/gnargs"
)

type (
	// GNConfig is the remote-build related subset of the GN arguments.
	// UseReclient and UseSiso are tri-state: nil means the argument was
	// not set and a default must be derived.
	GNConfig struct {
		UseRemoteexec bool
		UseReclient   *bool
		UseSiso       *bool
		IsAndroid     bool
	}

	// RemoteexecDefaults mirrors build/toolchain/remoteexec_defaults.gni.
	RemoteexecDefaults struct {
		UseReclientOnSiso  bool
		UseReclientOnNinja bool
	}
)

// ReadGNConfig folds the parsed GN arguments into a GNConfig. Later
// assignments override earlier ones, matching GN semantics.
func ReadGNConfig(args []gnargs.Arg) GNConfig {
	var cfg GNConfig
	for _, a := range args {
		switch {
		case a.Key == "use_remoteexec" && a.Value == "true":
			cfg.UseRemoteexec = true
		case a.Key == "use_remoteexec" && a.Value == "false":
			cfg.UseRemoteexec = false
		case a.Key == "use_siso" && a.Value == "true":
			cfg.UseSiso = boolPtr(true)
		case a.Key == "use_siso" && a.Value == "false":
			cfg.UseSiso = boolPtr(false)
		case a.Key == "use_reclient" && a.Value == "true":
			cfg.UseReclient = boolPtr(true)
		case a.Key == "use_reclient" && a.Value == "false":
			cfg.UseReclient = boolPtr(false)
		case a.Key == "target_os" && a.Value == `"android"`:
			cfg.IsAndroid = true
		}
	}
	return cfg
}

var useSisoLine = regexp.MustCompile(`(^|\s*)(use_siso)\s*=\s*(true)\s*$`)

// UseSisoDefault decides whether siso is the default build tool for the
// checkout, mirroring //build/toolchain/siso.gni. Siso needs .sisoenv
// for its environment, so a missing .sisoenv always means ninja.
func UseSisoDefault(sourceRoot, outDir string) bool {
	if sourceRoot == "" {
		return false
	}

	if !fileExists(filepath.Join(sourceRoot, "build", "config", "siso", ".sisoenv")) {
		return false
	}

	// Project-wide default in .gn.
	if data, err := os.ReadFile(filepath.Join(sourceRoot, ".gn")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if useSisoLine.MatchString(line) {
				return true
			}
		}
	}

	// Chromium itself enables siso via build_with_chromium.
	gclientArgs := filepath.Join(sourceRoot, "build", "config", "gclient_args.gni")
	if data, err := os.ReadFile(gclientArgs); err == nil {
		if strings.Contains(string(data), "build_with_chromium = true") {
			return true
		}
	}

	// The output directory is already a siso build.
	return fileExists(filepath.Join(outDir, ".siso_deps"))
}

var gniAssignment = regexp.MustCompile(`(^|\s*)([^=\s]+)\s*=\s*(\S+)\s*$`)

// ReadRemoteexecDefaults reads remoteexec_defaults.gni, returning both
// values true when the file or the checkout is absent.
func ReadRemoteexecDefaults(sourceRoot string) RemoteexecDefaults {
	defaults := RemoteexecDefaults{UseReclientOnSiso: true, UseReclientOnNinja: true}
	if sourceRoot == "" {
		return defaults
	}

	data, err := os.ReadFile(filepath.Join(sourceRoot, "build", "toolchain", "remoteexec_defaults.gni"))
	if err != nil {
		return defaults
	}

	for _, line := range strings.Split(string(data), "\n") {
		line, _, _ = strings.Cut(line, "#")
		m := gniAssignment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch m[2] {
		case "use_reclient_on_siso":
			defaults.UseReclientOnSiso = m[3] == "true"
		case "use_reclient_on_ninja":
			defaults.UseReclientOnNinja = m[3] == "true"
		}
	}
	return defaults
}

// SisoMarkerPath and NinjaMarkerPath locate the files that tell which
// tool last built the output directory. Siso writes a .ninja_log too, so
// only a .ninja_log WITHOUT .siso_deps implies a ninja build.
func SisoMarkerPath(outDir string) string  { return filepath.Join(outDir, ".siso_deps") }
func NinjaMarkerPath(outDir string) string { return filepath.Join(outDir, ".ninja_log") }

// ReclientRBEProject extracts the RBE project from the RBE_instance
// environment value or the reproxy config file contents.
func ReclientRBEProject(rbeInstance, reproxyCfg string) string {
	instancePattern := regexp.MustCompile(`projects/([^/]*)/instances/.*`)
	if rbeInstance != "" {
		if m := instancePattern.FindStringSubmatch(rbeInstance); m != nil {
			return m[1]
		}
	}
	cfgPattern := regexp.MustCompile(`instance\s*=\s*projects/([^/]*)/instances/.*`)
	for _, line := range strings.Split(reproxyCfg, "\n") {
		if m := cfgPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

// SisoRBEProject extracts the RBE project from the SISO_PROJECT
// environment value or the checkout's .sisoenv.
func SisoRBEProject(sisoProject, sourceRoot string) string {
	if sisoProject != "" {
		return sisoProject
	}
	if sourceRoot == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(sourceRoot, "build", "config", "siso", ".sisoenv"))
	if err != nil {
		return ""
	}
	pattern := regexp.MustCompile(`SISO_PROJECT=\s*(\S*)\s*`)
	for _, line := range strings.Split(string(data), "\n") {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func boolPtr(b bool) *bool { return &b }

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
