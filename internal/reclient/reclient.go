// SPDX-License-Identifier: MPL-2.0

// Package reclient manages the reproxy lifecycle around a build. The
// reclient binaries live under <buildtools>/reclient in the checkout;
// reproxy must be started before the build tool runs and must always be
// shut down afterwards, whatever the build's outcome.
package reclient

import (
	"os"
	"path/filepath"

	"depotkit/internal/subproc"
)

// Proxy locates and controls a checkout's reproxy instance.
type Proxy struct {
	// BinDir holds the reclient binaries (bootstrap, reproxy, rewrapper).
	BinDir string
	// ConfigPath is the reproxy.cfg used for this checkout.
	ConfigPath string
	// Runner executes the bootstrap commands; swapped in tests.
	Runner func(*subproc.Invocation) *subproc.Result
}

// FindBinDir returns the reclient binary directory under buildtools, or
// "" when not present.
func FindBinDir(buildtools string) string {
	if buildtools == "" {
		return ""
	}
	dir := filepath.Join(buildtools, "reclient")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

// FindConfig returns the reproxy config under buildtools, or "" when not
// present.
func FindConfig(buildtools string) string {
	if buildtools == "" {
		return ""
	}
	cfg := filepath.Join(buildtools, "reclient_cfgs", "reproxy.cfg")
	if info, err := os.Stat(cfg); err == nil && !info.IsDir() {
		return cfg
	}
	return ""
}

// NewProxy builds a Proxy for the given buildtools directory. Both the
// binaries and the config must be present; otherwise nil is returned and
// the caller reports the actionable configuration error.
func NewProxy(buildtools string) *Proxy {
	binDir := FindBinDir(buildtools)
	cfg := FindConfig(buildtools)
	if binDir == "" || cfg == "" {
		return nil
	}
	return &Proxy{BinDir: binDir, ConfigPath: cfg, Runner: subproc.Run}
}

// Start launches reproxy through the bootstrap binary.
func (p *Proxy) Start() *subproc.Result {
	return p.Runner(&subproc.Invocation{Argv: []string{
		filepath.Join(p.BinDir, "bootstrap"),
		"--re_proxy=" + filepath.Join(p.BinDir, "reproxy"),
		"--cfg=" + p.ConfigPath,
	}})
}

// Stop shuts reproxy down.
func (p *Proxy) Stop() *subproc.Result {
	return p.Runner(&subproc.Invocation{Argv: []string{
		filepath.Join(p.BinDir, "bootstrap"),
		"--shutdown",
		"--cfg=" + p.ConfigPath,
	}})
}

// Run wraps build inside a reproxy session: start, build, always stop.
// A failed start short-circuits with its result; the build result is
// returned even when the shutdown fails, since the build outcome is
// what the user cares about.
func (p *Proxy) Run(build func() *subproc.Result) *subproc.Result {
	if res := p.Start(); !res.Success() {
		return res
	}
	defer p.Stop()
	return build()
}
