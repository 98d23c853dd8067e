// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"robolab-cli/internal/config"
	"robolab-cli/internal/container"
	"robolab-cli/internal/oci"
	"robolab-cli/internal/pack"
	"robolab-cli/internal/sif"
)

var (
	// sandboxYes rebuilds a stale sandbox without prompting
	sandboxYes bool
	// sandboxOutputDir overrides the configured artifact directory
	sandboxOutputDir string

	// sandboxCmd expands a built SIF image into a writable directory tree
	sandboxCmd = &cobra.Command{
		Use:   "sandbox IMAGE",
		Short: "Expand a built SIF image into a writable sandbox",
		Long: `Expand a previously built SIF image into a writable sandbox directory.

The sandbox lets you poke around the image's filesystem and test changes
before rebuilding. It is derived from ` + CmdStyle.Render("<image>.sif") + ` in the artifact
directory; a sandbox that is already newer than the image is reused.

Examples:
  robolab sandbox robot_lab_img
  robolab sandbox robot_lab_img -y -o ./artifacts`,
		Args: cobra.ExactArgs(1),
		RunE: runSandbox,
	}
)

func init() {
	sandboxCmd.Flags().BoolVarP(&sandboxYes, "yes", "y", false, "rebuild a stale sandbox without prompting")
	sandboxCmd.Flags().StringVarP(&sandboxOutputDir, "output-dir", "o", "", "artifact directory (default from config, else the current directory)")
}

func runSandbox(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	image := container.ImageTag(args[0])
	if err := image.Validate(); err != nil {
		return err
	}

	outDir := sandboxOutputDir
	if outDir == "" {
		outDir = string(cfg.Pack.OutputDir)
	}
	if outDir == "" {
		outDir = "."
	}
	base := image.Base()

	builder, err := sif.Detect(string(cfg.Sif.Prefer))
	if err != nil {
		return fail(cmd, err)
	}

	pipeline := pack.New(
		container.NewEngine(string(cfg.Container.Binary)),
		oci.NewExporter(),
		pack.WithBuilder(builder),
		pack.WithConfirm(confirmPrompt),
	)
	path, err := pipeline.MaterializeSandbox(cmd.Context(), pack.SandboxOptions{
		SifPath:    filepath.Join(outDir, base+".sif"),
		SandboxDir: filepath.Join(outDir, base+"_sandbox"),
		Yes:        sandboxYes,
	})
	if err != nil {
		if errors.Is(err, pack.ErrAborted) {
			fmt.Println(WarningStyle.Render("Aborted.") + " The existing sandbox was left alone.")
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}
		return fail(cmd, err)
	}

	fmt.Printf("%s Sandbox ready at %s\n", SuccessStyle.Render("✓"), path)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Printf("  Enter it: %s\n", CmdStyle.Render("apptainer shell --writable "+path))
	return nil
}
