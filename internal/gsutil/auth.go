// SPDX-License-Identifier: MPL-2.0

package gsutil

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LUCIAuthScopes are the OAuth scopes requested when wrapping gsutil in a
// luci-auth context.
const LUCIAuthScopes = "https://www.googleapis.com/auth/devstorage.full_control" +
	" https://www.googleapis.com/auth/userinfo.email"

// Env looks up environment variables; os.Getenv in production, a map in
// tests.
type Env func(string) string

// MapEnv adapts a fixed map to the Env interface for tests.
func MapEnv(m map[string]string) Env {
	return func(key string) string { return m[key] }
}

// IsLUCIContext reports whether the process already runs inside a LUCI
// authentication context, either on a headless swarming bot or with a
// LUCI_CONTEXT file that carries local_auth.
func IsLUCIContext(env Env) bool {
	if env("SWARMING_HEADLESS") == "1" {
		return true
	}
	path := env("LUCI_CONTEXT")
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var ctx map[string]json.RawMessage
	if err := json.Unmarshal(data, &ctx); err != nil {
		return false
	}
	_, ok := ctx["local_auth"]
	return ok
}

// IsLUCIAuthSupported reports whether luci-auth binaries exist for the
// platform. The mainframe ports have no prebuilt luci-auth.
func IsLUCIAuthSupported(goos string) bool {
	return goos != "aix" && goos != "zos"
}

// BotoPath returns the legacy .boto credential file to honor, or "" when
// none is configured. Explicit environment overrides win over the
// default location in the home directory.
func BotoPath(env Env, home string) string {
	if p := env("BOTO_CONFIG"); p != "" {
		return p
	}
	if p := env("AWS_CREDENTIAL_FILE"); p != "" {
		return p
	}
	if home == "" {
		return ""
	}
	p := filepath.Join(home, ".boto")
	if fileExists(p) {
		return p
	}
	return ""
}
