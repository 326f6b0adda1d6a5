// SPDX-License-Identifier: MPL-2.0

package subproc

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LookPathSkipping searches PATH for an executable like exec.LookPath,
// but ignores entries that resolve to skipDir. The wrappers install
// themselves under names like "ninja" and "vpython3", so a plain PATH
// lookup from inside the wrapper would find the wrapper again and recurse
// forever.
func LookPathSkipping(name, skipDir string) (string, error) {
	pathEnv := os.Getenv("PATH")
	if pathEnv == "" {
		return "", fmt.Errorf("%s not found: PATH is empty", name)
	}

	skipDir = filepath.Clean(skipDir)
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		if skipDir != "" && filepath.Clean(dir) == skipDir {
			continue
		}
		for _, candidate := range executableNames(name) {
			p := filepath.Join(dir, candidate)
			if isExecutable(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%s not found in PATH", name)
}

func executableNames(name string) []string {
	if runtime.GOOS != "windows" {
		return []string{name}
	}
	if strings.Contains(name, ".") {
		return []string{name}
	}
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".com;.exe;.bat;.cmd"
	}
	names := make([]string, 0, 4)
	for _, ext := range strings.Split(exts, ";") {
		if ext == "" {
			continue
		}
		names = append(names, name+strings.ToLower(ext))
	}
	return names
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
