// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance shown when a wrapper cannot do its job, such as
// a missing checkout or an unconfigured remote backend.
package issue
