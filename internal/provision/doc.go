// SPDX-License-Identifier: MPL-2.0

// Package provision turns a workspace manifest into an ordered sequence of
// idempotent steps and executes them synchronously, stopping on the first
// error.
//
// Each step kind (apt, script, repos, venv) knows how to detect whether its
// effect is already materialized, so re-running provisioning on a healthy
// workspace is a no-op. Detection relies on the cheapest signal available:
// dpkg's package database for apt steps, directory or file existence for
// everything else.
package provision
