// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"robolab-cli/internal/config"
	"robolab-cli/internal/container"
	"robolab-cli/internal/sif"
)

type (
	// ConfirmFunc asks the operator a yes/no question before a destructive
	// action. The CLI wires an interactive prompt; tests inject a recorder.
	ConfirmFunc func(title, prompt string) (bool, error)

	// Options are the per-run inputs of the packaging pipeline.
	Options struct {
		// Container is the source container to package.
		Container container.ContainerName
		// Image is the tag the committed image gets; its base name also
		// derives every artifact filename.
		Image container.ImageTag
		// OutputDir is the artifact directory. Empty means the current
		// directory.
		OutputDir string
		// Yes skips all confirmation prompts (force).
		Yes bool
		// LocalBuild builds the SIF here through the fallback ladder
		// instead of only emitting the HPC submission script.
		LocalBuild bool
		// SkipCommit reuses the already-tagged image instead of committing
		// the container again.
		SkipCommit bool
		// Sandbox materializes the writable sandbox tree after a
		// successful local build.
		Sandbox bool
		// HPC parameterizes the generated submission script.
		HPC config.HPCConfig
	}

	// SandboxOptions are the inputs of standalone sandbox materialization.
	SandboxOptions struct {
		// SifPath is the built image the sandbox derives from.
		SifPath string
		// SandboxDir is the target directory tree.
		SandboxDir string
		// Yes skips the stale-sandbox confirmation prompt.
		Yes bool
	}

	// StageOutcome records how one pipeline stage ended.
	StageOutcome struct {
		Name    string
		Outcome string // "done", "skipped", or "failed"
		Detail  string
	}

	// Result reports what a pipeline run produced.
	Result struct {
		ArchivePath string
		DefPath     string
		SifPath     string // empty unless a local build succeeded
		SandboxPath string // empty unless the sandbox was materialized
		ScriptPath  string
		ReadmePath  string
		ReceiptPath string
		// Strategy is the ladder strategy that produced the SIF.
		Strategy sif.BuildStrategy
		// ArchiveFresh reports that the existing archive was reused.
		ArchiveFresh bool
		// Stages lists every stage outcome in execution order.
		Stages []StageOutcome
	}
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBuilder sets the SIF builder used for local builds and sandboxes.
func WithBuilder(b *sif.Builder) Option {
	return func(p *Pipeline) { p.builder = b }
}

// WithConfirm sets the confirmation prompt implementation.
func WithConfirm(fn ConfirmFunc) Option {
	return func(p *Pipeline) { p.confirm = fn }
}
