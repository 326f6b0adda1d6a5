// SPDX-License-Identifier: MPL-2.0

// Command depotkit bundles the Chromium developer toolchain wrappers
// (vpython3, ninja, autoninja, autosiso, gsutil and friends) into a
// single binary. Each subcommand locates the right pinned tool, builds
// the child environment, and hands control to the external binary,
// propagating its exit code.
package main

import "depotkit/cmd/depotkit"

func main() {
	cmd.Execute()
}
