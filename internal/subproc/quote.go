// SPDX-License-Identifier: MPL-2.0

package subproc

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Characters that cmd.exe interprets outside of double quotes. Anything
// containing one of these gets every metacharacter caret-escaped so the
// echoed command survives a copy-paste into a cmd window.
const cmdUnsafe = "^<>&|()%"

var cmdBackslashQuote = regexp.MustCompile(`(\\*)"`)

// QuoteCommand renders argv as a single shell-ready line for the
// NINJA_SUMMARIZE_BUILD echo. goos selects the quoting dialect.
func QuoteCommand(argv []string, goos string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		if goos == "windows" {
			quoted = append(quoted, quoteForCmd(arg))
		} else {
			quoted = append(quoted, quotePosix(arg))
		}
	}
	return strings.Join(quoted, " ")
}

func quotePosix(arg string) string {
	q, err := syntax.Quote(arg, syntax.LangBash)
	if err != nil {
		// Control bytes that no shell dialect can represent; echo the raw
		// token rather than dropping it.
		return arg
	}
	return q
}

// quoteForCmd escapes an argument so CommandLineToArgvW parses it back
// intact and cmd.exe does not interpret its metacharacters.
func quoteForCmd(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \"") {
		arg = `"` + cmdBackslashQuote.ReplaceAllString(arg, `$1$1\"`) + `"`
	}
	if strings.ContainsAny(arg, cmdUnsafe) {
		var b strings.Builder
		for _, r := range arg {
			if strings.ContainsRune(cmdUnsafe+`"`, r) {
				b.WriteRune('^')
			}
			b.WriteRune(r)
		}
		arg = b.String()
	}
	return arg
}
