// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"robolab-cli/internal/snapshot"
)

// snapshotCmd freezes the active Python environment into a requirements file
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [DIR]",
	Short: "Freeze the active Python environment into a requirements file",
	Long: `Write the active Python environment's installed packages to a
requirements file under ` + CmdStyle.Render("DIR/requirements/") + ` (default: the current
directory).

The filename records the environment's name and Python version, e.g.
` + CmdStyle.Render("sim-python-3.11.txt") + `, so snapshots from different environments
live side by side. Activate the virtualenv or conda environment you want
to capture before running this.

Examples:
  robolab snapshot
  robolab snapshot ./workspace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	s := snapshot.New()
	path, err := s.Write(cmd.Context(), dir)
	if err != nil {
		return fail(cmd, err)
	}

	fmt.Printf("%s Saved %s\n", SuccessStyle.Render("✓"), path)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Printf("  Reference it from a venv step's %s list in the labfile\n", CmdStyle.Render("requirements"))
	return nil
}
