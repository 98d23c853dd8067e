// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for robolab.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"robolab-cli/internal/config"
	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "robolab",
		Short: "Provision robotics workspaces and package them for HPC",
		Long: TitleStyle.Render("robolab") + SubtitleStyle.Render(" - Provision robotics workspaces and package them for HPC") + `

robolab materializes a robotics development workspace from a manifest
(ROS 2, simulators, repositories, Python environments) and packages
Docker containers into Apptainer/Singularity images for cluster use.

Workspaces are described in 'labfile' manifests using CUE format;
provisioning steps are idempotent and safe to re-run.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a labfile in your workspace directory (robolab init)
  2. Provision the workspace with: robolab provision
  3. Package a prepared container with: robolab pack <container> <image>

` + SubtitleStyle.Render("Examples:") + `
  robolab provision --list      Show the manifest's steps and their state
  robolab pack sim sim_img      Export container 'sim' as image 'sim_img'
  robolab sandbox sim_img       Expand the built image into a sandbox
  robolab snapshot              Freeze the active Python environment
  robolab doctor                Report the external tools robolab needs`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/robolab/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(sandboxCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load(context.Background())
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
	logging.SetVerbose(verbose)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fail renders an operation failure (actionable errors include their
// suggestions), silences cobra's own reporting, and maps it to exit code 1.
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
