// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines the ActionableError type (what failed, which resource, how to fix
// it) plus a registry of known failure modes rendered as Markdown pages via
// glamour, so the CLI can point users at concrete remediation steps instead of
// a bare error string.
package issue
