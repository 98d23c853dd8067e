// SPDX-License-Identifier: MPL-2.0

// Package container wraps the Docker CLI for the packaging pipeline: the
// container/image queries, the commit, and the timestamps the freshness
// check compares against on-disk artifacts.
//
// The wrapped subcommands (inspect, commit, rmi) are CLI-compatible with
// podman, so the binary can be swapped through configuration without code
// changes.
package container
