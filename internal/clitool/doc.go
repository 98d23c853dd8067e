// SPDX-License-Identifier: MPL-2.0

// Package clitool provides the shared base for engines that drive external
// command-line tools (docker, skopeo, apptainer, singularity).
//
// A Tool resolves its binary through exec.LookPath at construction and runs
// subcommands through an injectable ExecCommandFunc so tests can substitute
// a mock process. Concrete engines embed *Tool and add typed operations on
// top of the RunCommand helpers.
package clitool
