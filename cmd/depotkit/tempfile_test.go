// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRunTempfile(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hook payload\n")

	if err := runTempfile(&out, in); err != nil {
		t.Fatalf("runTempfile: %v", err)
	}

	path := strings.TrimSpace(out.String())
	if path == "" {
		t.Fatal("no path printed")
	}
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "hook payload\n" {
		t.Errorf("temp file contents = %q", data)
	}
}

func TestRunTempfileEmptyInput(t *testing.T) {
	var out bytes.Buffer
	if err := runTempfile(&out, strings.NewReader("")); err != nil {
		t.Fatalf("runTempfile: %v", err)
	}
	path := strings.TrimSpace(out.String())
	t.Cleanup(func() { _ = os.Remove(path) })

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("want empty file, got %d bytes", info.Size())
	}
}
