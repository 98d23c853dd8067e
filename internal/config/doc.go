// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/robolab/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/robolab/config.cue on macOS, %APPDATA%\robolab\config.cue
// on Windows), with a config.cue in the current directory as a per-project fallback.
// The package provides type-safe configuration access for container engine selection,
// SIF builder preference, packaging output, Slurm submission defaults and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
