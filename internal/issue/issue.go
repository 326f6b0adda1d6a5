// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CheckoutNotFoundId Id = iota + 1
	NinjaNotFoundId
	OutputDirInvalidId
	BuildToolConflictId
	ReclientNotConfiguredId
	GsutilCorruptedId
	VPythonNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // pointers into the Chromium build docs
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	checkoutNotFoundIssue = &Issue{
		id: CheckoutNotFoundId,
		mdMsg: `
# No gclient checkout found!

We walked up from the current directory looking for a ` + "`.gclient`" + ` file
and never found one.

## Things you can try:
- Run from inside a gclient checkout:
~~~
$ cd /path/to/checkout/src
~~~

- Or create one first:
~~~
$ mkdir checkout && cd checkout
$ fetch chromium
~~~`,
		docLinks: []HttpLink{
			"https://www.chromium.org/developers/how-tos/get-the-code/",
		},
	}

	ninjaNotFoundIssue = &Issue{
		id: NinjaNotFoundId,
		mdMsg: `
# ninja binary not found!

Neither the checkout's bundled ninja nor one on your PATH could be
located.

## Search locations (in order of precedence):
1. ` + "`<checkout>/src/third_party/ninja/ninja`" + `
2. Every PATH entry, skipping this wrapper's own directory

## Things you can try:
- Sync the checkout so DEPS installs the bundled ninja:
~~~
$ gclient sync
~~~

- Or install ninja yourself and put it on PATH:
~~~
$ sudo apt install ninja-build
~~~`,
		docLinks: []HttpLink{
			"https://ninja-build.org/",
		},
	}

	outputDirInvalidIssue = &Issue{
		id: OutputDirInvalidId,
		mdMsg: `
# Output directory is not a generated build directory!

The output directory has no ` + "`args.gn`" + ` and no build files, so there is
nothing to build in it.

## Things you can try:
- Generate the build directory first:
~~~
$ gn gen out/Default
~~~

- Or point the build at an existing one:
~~~
$ autoninja -C out/Release chrome
~~~`,
	}

	buildToolConflictIssue = &Issue{
		id: BuildToolConflictId,
		mdMsg: `
# Output directory was built with a different tool!

The output directory carries state from the other build tool. Mixing
siso and ninja state in one directory corrupts incremental builds.

## Things you can try:
- Wipe the stale build state and retry:
~~~
$ gn clean out/Default
~~~

- Or keep the previous tool by setting it explicitly in args.gn:
~~~
use_siso = true
~~~`,
	}

	reclientNotConfiguredIssue = &Issue{
		id: ReclientNotConfiguredId,
		mdMsg: `
# Reclient is not configured in this checkout!

` + "`use_remoteexec = true`" + ` needs the reclient binaries and a reproxy
config under ` + "`buildtools/`" + `, and at least one is missing.

## Expected locations:
- ` + "`buildtools/reclient/`" + ` (bootstrap, reproxy, rewrapper)
- ` + "`buildtools/reclient_cfgs/reproxy.cfg`" + `

## Things you can try:
- Enable the reclient hooks and re-sync:
~~~
$ gclient sync --with_branch_heads
~~~

- Or build locally by turning remote execution off in args.gn:
~~~
use_remoteexec = false
~~~`,
		docLinks: []HttpLink{
			"https://chromium.googlesource.com/chromium/src/+/main/docs/linux/build_instructions.md",
		},
	}

	gsutilCorruptedIssue = &Issue{
		id: GsutilCorruptedId,
		mdMsg: `
# The pinned gsutil install is corrupted!

The downloaded gsutil archive failed verification or the installed copy
is incomplete.

## Things you can try:
- Force a clean reinstall:
~~~
$ depotkit gsutil --clean version
~~~

- Check that nothing on your network rewrites downloads from
  storage.googleapis.com`,
	}

	vpythonNotFoundIssue = &Issue{
		id: VPythonNotFoundId,
		mdMsg: `
# No vpython3 interpreter found!

The managed Python launcher could not be located next to this wrapper
or on your PATH.

## Things you can try:
- Make sure depot_tools is on your PATH:
~~~
$ export PATH="/path/to/depot_tools:$PATH"
~~~

- Or point the wrapper at an interpreter explicitly in config.toml:
~~~toml
[vpython]
managed_path = "/path/to/vpython3"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

The config file exists but could not be parsed or validated. The
wrappers keep working on built-in defaults until it is fixed.

## Things you can try:
- Check the file for syntax errors:
~~~
$ depotkit config path
~~~

- Or regenerate it from the defaults:
~~~
$ mv config.toml config.toml.bak && depotkit config init
~~~`,
	}

	issues = map[Id]*Issue{
		checkoutNotFoundIssue.Id():      checkoutNotFoundIssue,
		ninjaNotFoundIssue.Id():         ninjaNotFoundIssue,
		outputDirInvalidIssue.Id():      outputDirInvalidIssue,
		buildToolConflictIssue.Id():     buildToolConflictIssue,
		reclientNotConfiguredIssue.Id(): reclientNotConfiguredIssue,
		gsutilCorruptedIssue.Id():       gsutilCorruptedIssue,
		vpythonNotFoundIssue.Id():       vpythonNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
