// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidDirPath is returned when a DirPath value is whitespace-only.
	ErrInvalidDirPath = errors.New("invalid directory path")
	// ErrInvalidPinnedVersion is the sentinel error wrapped by InvalidPinnedVersionError.
	ErrInvalidPinnedVersion = errors.New("invalid pinned version")
	// ErrInvalidNinjaConfig is the sentinel error wrapped by InvalidNinjaConfigError.
	ErrInvalidNinjaConfig = errors.New("invalid ninja config")
	// ErrInvalidGsutilConfig is the sentinel error wrapped by InvalidGsutilConfigError.
	ErrInvalidGsutilConfig = errors.New("invalid gsutil config")
	// ErrInvalidVPythonConfig is the sentinel error wrapped by InvalidVPythonConfigError.
	ErrInvalidVPythonConfig = errors.New("invalid vpython config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

// versionPattern matches dotted release versions like "4.68".
var versionPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BinaryFilePath represents a filesystem path to an executable.
	// The zero value ("") is valid and means "resolve automatically".
	// Non-zero values must not be whitespace-only.
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// DirPath represents a filesystem path to a directory.
	// The zero value ("") is valid and means "use the default location".
	// Non-zero values must not be whitespace-only.
	DirPath string

	// InvalidDirPathError is returned when a DirPath value is
	// non-empty but whitespace-only.
	InvalidDirPathError struct {
		Value DirPath
	}

	// PinnedVersion is a dotted release version like "4.68".
	// The zero value ("") is valid and means "use the built-in pin".
	PinnedVersion string

	// InvalidPinnedVersionError is returned when a PinnedVersion is not a
	// dotted numeric version. It wraps ErrInvalidPinnedVersion.
	InvalidPinnedVersionError struct {
		Value PinnedVersion
	}

	// InvalidNinjaConfigError collects field-level validation errors from
	// a NinjaConfig. It wraps ErrInvalidNinjaConfig for errors.Is().
	InvalidNinjaConfigError struct {
		FieldErrors []error
	}

	// InvalidGsutilConfigError collects field-level validation errors from
	// a GsutilConfig. It wraps ErrInvalidGsutilConfig for errors.Is().
	InvalidGsutilConfigError struct {
		FieldErrors []error
	}

	// InvalidVPythonConfigError collects field-level validation errors from
	// a VPythonConfig. It wraps ErrInvalidVPythonConfig for errors.Is().
	InvalidVPythonConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field-level validation errors from a
	// UIConfig. It wraps ErrInvalidUIConfig for errors.Is().
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level validation errors from all
	// sub-components. It wraps ErrInvalidConfig for errors.Is().
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Ninja configures the build wrappers.
		Ninja NinjaConfig `json:"ninja" mapstructure:"ninja"`
		// Gsutil configures the pinned gsutil install.
		Gsutil GsutilConfig `json:"gsutil" mapstructure:"gsutil"`
		// VPython configures interpreter resolution.
		VPython VPythonConfig `json:"vpython" mapstructure:"vpython"`
		// UI configures output behavior.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// NinjaConfig tunes job-count calculation for remote builds.
	NinjaConfig struct {
		// CoreMultiplier scales the remote job count per local core.
		CoreMultiplier int `json:"core_multiplier" mapstructure:"core_multiplier"`
		// CoreAddition is added to the core count for local job limits.
		CoreAddition int `json:"core_addition" mapstructure:"core_addition"`
		// CoreLimit caps the computed remote job count; 0 means no cap.
		CoreLimit int `json:"core_limit" mapstructure:"core_limit"`
		// Summarize echoes the final build command line before running it.
		Summarize bool `json:"summarize" mapstructure:"summarize"`
	}

	// GsutilConfig pins the gsutil release and its install location.
	GsutilConfig struct {
		// Version overrides the built-in gsutil pin.
		Version PinnedVersion `json:"version" mapstructure:"version"`
		// BinDir overrides where versioned gsutil installs live.
		BinDir DirPath `json:"bin_dir" mapstructure:"bin_dir"`
	}

	// VPythonConfig controls how the vpython wrapper finds interpreters.
	VPythonConfig struct {
		// ManagedPath overrides resolution of the managed vpython3 launcher.
		ManagedPath BinaryFilePath `json:"managed_path" mapstructure:"managed_path"`
		// BypassPython is the interpreter used when the bypass is active.
		BypassPython BinaryFilePath `json:"bypass_python" mapstructure:"bypass_python"`
	}

	// UIConfig configures output behavior.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables diagnostic output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the NinjaConfig has valid fields. All three
// numeric knobs must be non-negative.
func (c NinjaConfig) IsValid() (bool, []error) {
	var errs []error
	if c.CoreMultiplier < 0 {
		errs = append(errs, fmt.Errorf("core_multiplier must be non-negative, got %d", c.CoreMultiplier))
	}
	if c.CoreAddition < 0 {
		errs = append(errs, fmt.Errorf("core_addition must be non-negative, got %d", c.CoreAddition))
	}
	if c.CoreLimit < 0 {
		errs = append(errs, fmt.Errorf("core_limit must be non-negative, got %d", c.CoreLimit))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidNinjaConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidNinjaConfigError.
func (e *InvalidNinjaConfigError) Error() string {
	return fmt.Sprintf("invalid ninja config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidNinjaConfig for errors.Is() compatibility.
func (e *InvalidNinjaConfigError) Unwrap() error { return ErrInvalidNinjaConfig }

// IsValid returns whether the GsutilConfig has valid fields.
func (c GsutilConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Version.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.BinDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidGsutilConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGsutilConfigError.
func (e *InvalidGsutilConfigError) Error() string {
	return fmt.Sprintf("invalid gsutil config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidGsutilConfig for errors.Is() compatibility.
func (e *InvalidGsutilConfigError) Unwrap() error { return ErrInvalidGsutilConfig }

// IsValid returns whether the VPythonConfig has valid fields.
func (c VPythonConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ManagedPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.BypassPython.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidVPythonConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidVPythonConfigError.
func (e *InvalidVPythonConfigError) Error() string {
	return fmt.Sprintf("invalid vpython config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidVPythonConfig for errors.Is() compatibility.
func (e *InvalidVPythonConfigError) Unwrap() error { return ErrInvalidVPythonConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each sub-config's IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Ninja.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Gsutil.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.VPython.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "resolve automatically").
// Non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// String returns the string representation of the DirPath.
func (p DirPath) String() string { return string(p) }

// IsValid returns whether the DirPath is valid.
// The zero value ("") is valid (means "use the default location").
// Non-zero values must not be whitespace-only.
func (p DirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDirPathError.
func (e *InvalidDirPathError) Error() string {
	return fmt.Sprintf("invalid directory path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDirPath for errors.Is() compatibility.
func (e *InvalidDirPathError) Unwrap() error { return ErrInvalidDirPath }

// String returns the string representation of the PinnedVersion.
func (v PinnedVersion) String() string { return string(v) }

// IsValid returns whether the PinnedVersion is valid.
// The zero value ("") is valid (means "use the built-in pin").
// Non-zero values must be dotted numeric versions like "4.68".
func (v PinnedVersion) IsValid() (bool, []error) {
	if v == "" {
		return true, nil
	}
	if !versionPattern.MatchString(string(v)) {
		return false, []error{&InvalidPinnedVersionError{Value: v}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPinnedVersionError.
func (e *InvalidPinnedVersionError) Error() string {
	return fmt.Sprintf("invalid pinned version %q: must be a dotted numeric version like \"4.68\"", e.Value)
}

// Unwrap returns ErrInvalidPinnedVersion for errors.Is() compatibility.
func (e *InvalidPinnedVersionError) Unwrap() error { return ErrInvalidPinnedVersion }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Ninja: NinjaConfig{
			CoreMultiplier: 80,
			CoreAddition:   2,
			CoreLimit:      0, // no cap
			Summarize:      false,
		},
		Gsutil: GsutilConfig{
			Version: "", // built-in pin
			BinDir:  "", // alongside the wrapper
		},
		VPython: VPythonConfig{
			ManagedPath:  "", // sibling binary, then PATH
			BypassPython: "python3",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
