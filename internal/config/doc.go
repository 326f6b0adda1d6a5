// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the depotkit configuration.
//
// Configuration lives in a TOML file under the platform config directory
// and tunes the wrappers: job-count knobs for the build wrappers, the
// gsutil version pin, and vpython interpreter overrides. A missing file
// means defaults; a malformed file is an actionable error.
package config
