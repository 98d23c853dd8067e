// SPDX-License-Identifier: MPL-2.0

// Package labfile defines the schema and parsing for labfile CUE manifests.
//
// A labfile describes a robotics workspace: the ordered provisioning steps
// (apt package sets, shell snippets, repository clones, the Python virtual
// environment) that `robolab provision` applies idempotently. Manifests are
// validated against an embedded CUE schema and then against Go-level rules
// that depend on each step's kind.
package labfile
