// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"robolab-cli/pkg/labfile"
)

var (
	initForce bool

	// initCmd creates a new labfile
	initCmd = &cobra.Command{
		Use:   "init [FILENAME]",
		Short: "Create a starter labfile in the current directory",
		Long: `Create a starter labfile in the current directory with example
provisioning steps.

The generated manifest shows one step of each kind (system packages, a
shell script, repository checkouts, and a Python virtualenv) ready to
adapt to your lab's setup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLabInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing labfile")
}

func runLabInit(cmd *cobra.Command, args []string) error {
	filename := labfile.LabfileName + ".cue"
	if len(args) > 0 {
		filename = args[0]
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := labfile.GenerateCUE(labfile.Scaffold())
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the labfile to describe your workspace")
	fmt.Println("  2. Run 'robolab provision --list' to see the steps")
	fmt.Println("  3. Run 'robolab provision' to apply them")

	return nil
}
