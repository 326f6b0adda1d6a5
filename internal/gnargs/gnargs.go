// SPDX-License-Identifier: MPL-2.0

// Package gnargs reads GN build arguments from an output directory's
// args.gn. Only the subset autoninja cares about is supported: plain
// key = value assignments, comments, and import() lines. Conditional
// assignments inside if blocks are reported as-is; callers that need
// "last assignment wins" semantics apply that themselves.
package gnargs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Arg is one key = value assignment from args.gn, in file order with
// imported files first (matching GN, where the importing file overrides
// the imported one).
type Arg struct {
	Key   string
	Value string
}

var (
	// assignment matches one "key = value" pair. A single line may carry
	// several pairs; anything after a comment marker is ignored.
	assignment = regexp.MustCompile(`([A-Za-z0-9_]+)\s*=\s*("[^"]*"|\S+)`)

	// importLine matches import("//path/to/file.gni").
	importLine = regexp.MustCompile(`^\s*import\s*\(\s*"([^"]+)"\s*\)`)
)

const maxImportDepth = 10

// Exists reports whether outDir carries an args.gn.
func Exists(outDir string) bool {
	info, err := os.Stat(filepath.Join(outDir, "args.gn"))
	return err == nil && !info.IsDir()
}

// Args parses outDir/args.gn. sourceRoot resolves //-relative import
// paths; it may be empty when the caller is not inside a checkout, in
// which case such imports are skipped.
func Args(sourceRoot, outDir string) ([]Arg, error) {
	return parseFile(sourceRoot, filepath.Join(outDir, "args.gn"), 0)
}

func parseFile(sourceRoot, path string, depth int) ([]Arg, error) {
	if depth > maxImportDepth {
		return nil, fmt.Errorf("gn import chain too deep at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var args []Arg
	for _, line := range strings.Split(string(data), "\n") {
		if m := importLine.FindStringSubmatch(line); m != nil {
			imported, ok := resolveImport(sourceRoot, m[1])
			if !ok {
				continue
			}
			sub, err := parseFile(sourceRoot, imported, depth+1)
			if err != nil {
				// A missing or unreadable import does not invalidate the
				// arguments already present in args.gn itself.
				continue
			}
			args = append(args, sub...)
			continue
		}

		// Strip comments. GN string values never contain '#' in the
		// arguments we read, so a plain cut is sufficient.
		line, _, _ = strings.Cut(line, "#")

		for _, m := range assignment.FindAllStringSubmatch(line, -1) {
			args = append(args, Arg{Key: m[1], Value: m[2]})
		}
	}
	return args, nil
}

func resolveImport(sourceRoot, gnPath string) (string, bool) {
	if !strings.HasPrefix(gnPath, "//") {
		return "", false
	}
	if sourceRoot == "" {
		return "", false
	}
	return filepath.Join(sourceRoot, filepath.FromSlash(strings.TrimPrefix(gnPath, "//"))), true
}

// Lookup returns the last value assigned to key, mirroring GN override
// order, and whether the key was present at all.
func Lookup(args []Arg, key string) (string, bool) {
	value, found := "", false
	for _, a := range args {
		if a.Key == key {
			value, found = a.Value, true
		}
	}
	return value, found
}
