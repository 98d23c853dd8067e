// SPDX-License-Identifier: MPL-2.0

// Package pack implements the image packaging pipeline: committing a
// container to a tagged image, exporting it to an OCI archive, emitting an
// Apptainer definition, optionally building the SIF locally through the
// strategy fallback ladder, materializing a writable sandbox, and writing
// the HPC submission script, README, and build receipt.
//
// The pipeline is synchronous and stops on the first error. Staleness is
// decided by direct timestamp comparison: the archive is fresh when its
// mtime is not older than the container's last activity (FinishedAt, or
// Created for a container that never finished). Rebuilding a stale artifact
// asks the operator first unless the force flag is set.
package pack
