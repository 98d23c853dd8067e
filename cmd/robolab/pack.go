// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"robolab-cli/internal/config"
	"robolab-cli/internal/container"
	"robolab-cli/internal/oci"
	"robolab-cli/internal/pack"
	"robolab-cli/internal/sif"
)

var (
	// packYes answers every confirmation prompt with yes
	packYes bool
	// packLocalBuild builds the SIF image on this machine
	packLocalBuild bool
	// packSkipCommit reuses the tagged image instead of committing
	packSkipCommit bool
	// packSandbox expands the built image into a writable sandbox
	packSandbox bool
	// packOutputDir overrides the configured artifact directory
	packOutputDir string

	// packCmd packages a container into an Apptainer image
	packCmd = &cobra.Command{
		Use:   "pack CONTAINER IMAGE",
		Short: "Package a container into an Apptainer image for the cluster",
		Long: `Package a running or stopped container into an Apptainer (SIF) image.

The pipeline commits the container to an image, exports it to an OCI
archive, writes an Apptainer definition, and emits an sbatch script that
builds the SIF on the cluster. With ` + CmdStyle.Render("--local-build") + ` the image is built
here instead, falling back through permission-fixing strategies when the
straightforward build fails.

Artifacts that are already newer than the container's last activity are
reused rather than rebuilt; stale ones are only overwritten after
confirmation (or unconditionally with ` + CmdStyle.Render("--yes") + `).

Examples:
  robolab pack robot_lab robot_lab_img
  robolab pack robot_lab robot_lab_img --local-build
  robolab pack robot_lab robot_lab_img -y -s`,
		Args: cobra.ExactArgs(2),
		RunE: runPack,
	}
)

func init() {
	packCmd.Flags().BoolVarP(&packYes, "yes", "y", false, "overwrite stale artifacts without prompting")
	packCmd.Flags().BoolVarP(&packLocalBuild, "local-build", "l", false, "build the SIF image locally instead of emitting a cluster script")
	packCmd.Flags().BoolVarP(&packSkipCommit, "skip-commit", "s", false, "reuse the tagged image instead of committing the container")
	packCmd.Flags().BoolVar(&packSandbox, "sandbox", false, "expand the built image into a writable sandbox (implies --local-build)")
	packCmd.Flags().StringVarP(&packOutputDir, "output-dir", "o", "", "artifact directory (default from config, else the current directory)")
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	outDir := packOutputDir
	if outDir == "" {
		outDir = string(cfg.Pack.OutputDir)
	}
	localBuild := packLocalBuild || packSandbox

	engine := container.NewEngine(string(cfg.Container.Binary))
	exporter := oci.NewExporter()

	popts := []pack.Option{pack.WithConfirm(confirmPrompt)}
	builder, err := sif.Detect(string(cfg.Sif.Prefer))
	if err == nil {
		popts = append(popts, pack.WithBuilder(builder))
	} else if localBuild {
		// Without a builder only script emission works.
		return fail(cmd, err)
	}

	pipeline := pack.New(engine, exporter, popts...)
	res, err := pipeline.Run(cmd.Context(), pack.Options{
		Container:  container.ContainerName(args[0]),
		Image:      container.ImageTag(args[1]),
		OutputDir:  outDir,
		Yes:        packYes,
		LocalBuild: localBuild,
		SkipCommit: packSkipCommit,
		Sandbox:    packSandbox,
		HPC:        cfg.HPC,
	})
	if err != nil {
		if errors.Is(err, pack.ErrAborted) {
			fmt.Println(WarningStyle.Render("Aborted.") + " Nothing was overwritten.")
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}
		return fail(cmd, err)
	}

	printPackResult(res)
	return nil
}

// printPackResult summarizes the produced artifacts and tells the operator
// what to do with them.
func printPackResult(res *pack.Result) {
	fmt.Printf("%s Packaging complete\n", SuccessStyle.Render("✓"))
	fmt.Println()

	fmt.Println(SubtitleStyle.Render("Artifacts:"))
	printArtifact("archive", res.ArchivePath, res.ArchiveFresh)
	printArtifact("definition", res.DefPath, false)
	printArtifact("image", res.SifPath, false)
	printArtifact("sandbox", res.SandboxPath, false)
	printArtifact("script", res.ScriptPath, false)
	printArtifact("readme", res.ReadmePath, false)
	printArtifact("receipt", res.ReceiptPath, false)
	fmt.Println()

	if GetVerbose() {
		fmt.Println(SubtitleStyle.Render("Stages:"))
		for _, st := range res.Stages {
			fmt.Printf("  %-10s %-8s %s\n", st.Name, st.Outcome, VerboseStyle.Render(st.Detail))
		}
		fmt.Println()
	}

	fmt.Println(SubtitleStyle.Render("Next steps:"))
	if res.SifPath != "" {
		fmt.Printf("  Run the image: %s\n", CmdStyle.Render("apptainer run "+res.SifPath))
		if res.SandboxPath != "" {
			fmt.Printf("  Enter the sandbox: %s\n", CmdStyle.Render("apptainer shell --writable "+res.SandboxPath))
		}
	} else {
		fmt.Printf("  Copy the artifacts to the cluster and submit: %s\n", CmdStyle.Render("sbatch "+res.ScriptPath))
		fmt.Printf("  See %s for the full transfer instructions\n", CmdStyle.Render(res.ReadmePath))
	}
}

func printArtifact(label, path string, reused bool) {
	if path == "" {
		return
	}
	note := ""
	if reused {
		note = " " + VerboseStyle.Render("(reused)")
	}
	fmt.Printf("  %-11s %s%s\n", label, path, note)
}
