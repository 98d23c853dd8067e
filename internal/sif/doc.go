// SPDX-License-Identifier: MPL-2.0

// Package sif wraps the Apptainer/Singularity CLI for building SIF images
// and sandbox directories from definition files.
//
// Builder resolution follows the sif.prefer configuration key: "auto" picks
// apptainer when installed and falls back to singularity (the two share a
// command-line surface), while an explicit preference selects that binary
// only. Build attempts are strategy-parameterized so callers can walk the
// rootless permission-fix ladder (standard, --fix-perms, --fakeroot) that
// unprivileged HPC hosts commonly require.
package sif
