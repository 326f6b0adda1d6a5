// SPDX-License-Identifier: MPL-2.0

// Package vpython implements the argument rewriting performed by the
// vpython3 wrapper before it hands control to a Python interpreter.
//
// Normally the wrapper invokes the managed (pinned) vpython3 binary with
// the arguments untouched. When the VPYTHON_BYPASS environment variable
// carries the exact opt-out marker, the wrapper instead strips every
// vpython-specific flag from the argument vector and invokes the bare
// system interpreter directly. A tool-action flag (-vpython-tool...)
// means the invoked program performs a vpython management action itself,
// which only the managed binary can honor, so its presence cancels the
// bypass entirely.
package vpython

import "strings"

const (
	// BypassEnv is the environment variable consulted to decide the
	// operating mode.
	BypassEnv = "VPYTHON_BYPASS"

	// BypassMarker is the exact value BypassEnv must hold for bypass mode
	// to engage. Any other value, including the empty string, selects the
	// managed interpreter. The wording is deliberate: setting it is an
	// explicit acknowledgement that the configuration is unsupported.
	BypassMarker = "manually managed python not supported by chrome operations"

	// toolFlagPrefix marks arguments that request a vpython management
	// action from the invoked tool itself.
	toolFlagPrefix = "-vpython-tool"

	// optionFlagPrefix marks ordinary vpython options. The token that
	// follows one of these is dropped as its value.
	optionFlagPrefix = "-vpython"
)

type (
	// Mode selects which interpreter the wrapper invokes.
	Mode int

	// Action is the classification of a single argument token given the
	// current scan state.
	Action int

	// scanState carries the two flags threaded through the left-to-right
	// scan: stop records that a bare "--" was seen, ignoreNext records
	// that the previous token was a vpython option whose value must also
	// be dropped.
	scanState struct {
		stop       bool
		ignoreNext bool
	}
)

const (
	// ModeManaged invokes the pinned vpython3 binary with the original
	// arguments.
	ModeManaged Mode = iota
	// ModeBypass filters the arguments and invokes the bare system
	// interpreter.
	ModeBypass
)

const (
	// ActionEmit appends the token to the output verbatim.
	ActionEmit Action = iota
	// ActionDrop discards the token.
	ActionDrop
	// ActionDropWithNext discards the token and the one following it.
	ActionDropWithNext
	// ActionAbort cancels filtering; the caller must fall back to the
	// managed interpreter with the original arguments.
	ActionAbort
	// ActionStopFiltering discards the token and disables all further
	// interpretation; every later token is emitted verbatim.
	ActionStopFiltering
)

// ModeFromEnv maps the value of BypassEnv to an operating Mode. The
// comparison is case-sensitive whole-string equality.
func ModeFromEnv(value string) Mode {
	if value == BypassMarker {
		return ModeBypass
	}
	return ModeManaged
}

// String returns the mode name for diagnostics.
func (m Mode) String() string {
	if m == ModeBypass {
		return "bypass"
	}
	return "managed"
}

// classify is the pure per-token decision. The branch order is load
// bearing: a "--" wins over everything except an already-set stop flag,
// and the flag-prefix checks win over a pending ignoreNext.
func classify(token string, st scanState) Action {
	switch {
	case st.stop:
		return ActionEmit
	case token == "--":
		return ActionStopFiltering
	case strings.HasPrefix(token, toolFlagPrefix):
		return ActionAbort
	case strings.HasPrefix(token, optionFlagPrefix):
		// The token after ANY vpython option is dropped, even when the
		// option takes no value. Kept as-is to match the shipped wrapper
		// scripts; do not "fix" without verifying against them.
		return ActionDropWithNext
	case st.ignoreNext:
		return ActionDrop
	default:
		return ActionEmit
	}
}

// Filter rewrites args for the bare interpreter by folding classify over
// the tokens. It returns the filtered vector and whether filtering was
// aborted by a tool-action flag; on abort the returned slice is nil and
// the caller must use the managed path with the original arguments.
func Filter(args []string) (out []string, aborted bool) {
	out = make([]string, 0, len(args))
	var st scanState
	for _, token := range args {
		switch classify(token, st) {
		case ActionEmit:
			out = append(out, token)
		case ActionDrop:
			st.ignoreNext = false
		case ActionDropWithNext:
			st.ignoreNext = true
		case ActionAbort:
			return nil, true
		case ActionStopFiltering:
			st.stop = true
		}
	}
	return out, false
}
