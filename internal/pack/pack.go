// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"robolab-cli/internal/container"
	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
	"robolab-cli/internal/oci"
	"robolab-cli/internal/sif"
)

// ErrAborted is returned when the operator declines a confirmation prompt.
var ErrAborted = errors.New("aborted by operator")

// Pipeline wires the external engines into the staged packaging flow.
type Pipeline struct {
	engine   *container.Engine
	exporter *oci.Exporter
	builder  *sif.Builder
	confirm  ConfirmFunc
	log      *log.Logger
}

// New creates a packaging pipeline over the given engines.
func New(engine *container.Engine, exporter *oci.Exporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:   engine,
		exporter: exporter,
		log:      logging.WithPrefix("pack"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the packaging pipeline. It stops on the first error; no
// artifact is created before the source container is confirmed to exist.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Container.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Image.Validate(); err != nil {
		return nil, err
	}
	image := opts.Image.WithDefaultTag()
	base := image.Base()

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}

	res := &Result{
		ArchivePath: filepath.Join(outDir, base+".tar"),
		DefPath:     filepath.Join(outDir, base+".def"),
		ScriptPath:  filepath.Join(outDir, "build_"+base+".sbatch"),
		ReadmePath:  filepath.Join(outDir, "README.md"),
		ReceiptPath: filepath.Join(outDir, base+".receipt.toml"),
	}

	if !p.engine.Available() {
		return nil, engineNotAvailableError(p.engine.Name())
	}

	exists, err := p.engine.ContainerExists(ctx, opts.Container)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, containerNotFoundError(p.engine.Name(), opts.Container)
	}

	state, err := p.engine.State(ctx, opts.Container)
	if err != nil {
		return nil, err
	}
	lastActivity := state.LastActivity()

	// The archive is fresh iff its mtime is not older than the container's
	// last activity.
	fresh := false
	archiveExists := false
	if fi, statErr := os.Stat(res.ArchivePath); statErr == nil {
		archiveExists = true
		fresh = !fi.ModTime().Before(lastActivity)
	}

	if fresh {
		p.log.Info("Archive is up to date, skipping export", "archive", res.ArchivePath)
		res.ArchiveFresh = true
		res.addStage("export", "skipped", "archive newer than container activity")
	} else {
		if archiveExists && !opts.Yes {
			ok, askErr := p.ask(
				"Rebuild stale archive?",
				fmt.Sprintf("%s is older than the container's last activity and will be overwritten.", res.ArchivePath),
			)
			if askErr != nil {
				return nil, askErr
			}
			if !ok {
				return nil, fmt.Errorf("%w: declined archive rebuild", ErrAborted)
			}
		}
		if err := p.export(ctx, opts, image, res); err != nil {
			return nil, err
		}
	}

	if err := WriteDefinition(res.DefPath, DefinitionData{
		Container:   string(opts.Container),
		Image:       string(image),
		ArchiveName: filepath.Base(res.ArchivePath),
	}); err != nil {
		return nil, err
	}
	res.addStage("definition", "done", res.DefPath)

	if opts.LocalBuild {
		if err := p.buildLocal(ctx, opts, res, outDir, base); err != nil {
			return nil, err
		}
	}

	data := ScriptData{
		Base:      base,
		Container: string(opts.Container),
		Image:     string(image),
		Builder:   p.scriptBuilderName(opts.HPC.Module),
		HPC:       opts.HPC,
	}
	if err := WriteSubmissionScript(res.ScriptPath, data); err != nil {
		return nil, err
	}
	res.addStage("script", "done", res.ScriptPath)

	if err := WriteReadme(res.ReadmePath, data, res); err != nil {
		return nil, err
	}
	res.addStage("readme", "done", res.ReadmePath)

	if err := WriteReceipt(res.ReceiptPath, opts, res); err != nil {
		return nil, err
	}

	return res, nil
}

// export commits the container (unless skipped) and serializes the tagged
// image to the OCI archive.
func (p *Pipeline) export(ctx context.Context, opts Options, image container.ImageTag, res *Result) error {
	if !p.exporter.Available() {
		return exporterNotAvailableError()
	}

	if err := os.MkdirAll(filepath.Dir(res.ArchivePath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if opts.SkipCommit {
		exists, err := p.engine.ImageExists(ctx, image)
		if err != nil {
			return err
		}
		if !exists {
			return imageNotFoundError(p.engine.Name(), image)
		}
		p.log.Info("Skipping commit, reusing tagged image", "image", image)
		res.addStage("commit", "skipped", "reusing "+string(image))
	} else {
		id, err := p.engine.Commit(ctx, opts.Container, image)
		if err != nil {
			return err
		}
		p.log.Info("Committed container", "container", opts.Container, "image", image, "id", shortID(id))
		res.addStage("commit", "done", shortID(id))
	}

	p.log.Info("Exporting OCI archive", "image", image, "archive", res.ArchivePath)
	if err := p.exporter.Archive(ctx, string(image), res.ArchivePath); err != nil {
		return err
	}
	res.addStage("export", "done", res.ArchivePath)
	return nil
}

// buildLocal runs the fallback ladder and, when requested, the sandbox
// materialization that follows a successful build.
func (p *Pipeline) buildLocal(ctx context.Context, opts Options, res *Result, outDir, base string) error {
	if p.builder == nil {
		return builderNotAvailableError()
	}

	sifPath := filepath.Join(outDir, base+".sif")
	strategy, err := p.buildWithLadder(ctx, sifPath, res.DefPath)
	if err != nil {
		return err
	}
	res.SifPath = sifPath
	res.Strategy = strategy
	res.addStage("build", "done", "strategy "+string(strategy))

	if opts.Sandbox {
		sandboxDir := filepath.Join(outDir, base+"_sandbox")
		path, err := p.MaterializeSandbox(ctx, SandboxOptions{
			SifPath:    sifPath,
			SandboxDir: sandboxDir,
			Yes:        opts.Yes,
		})
		if err != nil {
			return err
		}
		res.SandboxPath = path
		res.addStage("sandbox", "done", path)
	}
	return nil
}

// buildWithLadder attempts each strategy once, in order. Success means the
// image exists on disk after the attempt; the builder's exit status alone
// is not trusted. The target is cleared up front so a leftover image from
// an earlier run cannot pass for this run's output, a failed attempt's
// partial output is removed before the next attempt, and an exhausted
// ladder leaves nothing at the target path.
func (p *Pipeline) buildWithLadder(ctx context.Context, sifPath, defPath string) (sif.BuildStrategy, error) {
	removeIfExists(sifPath)

	var lastErr error
	for _, strategy := range sif.Strategies() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p.log.Info("Building SIF image", "strategy", strategy, "builder", p.builder.Name())
		out, err := p.builder.Build(ctx, strategy, sifPath, defPath)
		if err == nil && fileExists(sifPath) {
			return strategy, nil
		}

		if err != nil {
			lastErr = err
			p.log.Warn("Build attempt failed", "strategy", strategy, "error", err)
			if out != "" {
				p.log.Debug("Builder output", "strategy", strategy, "output", out)
			}
		} else {
			lastErr = fmt.Errorf("builder exited successfully but %s does not exist", sifPath)
			p.log.Warn("Builder reported success without producing an image", "strategy", strategy)
		}
		removeIfExists(sifPath)
	}

	removeIfExists(sifPath)
	return "", buildExhaustedError(sifPath, lastErr)
}

// MaterializeSandbox expands a built SIF image into a writable sandbox
// directory. An existing sandbox at least as new as the image is reused; a
// stale one is rebuilt after confirmation (or immediately with Yes).
func (p *Pipeline) MaterializeSandbox(ctx context.Context, opts SandboxOptions) (string, error) {
	if p.builder == nil {
		return "", builderNotAvailableError()
	}

	sifInfo, err := os.Stat(opts.SifPath)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("materialize sandbox").
			WithResource(opts.SifPath).
			WithSuggestion("Build the image first with 'robolab pack ... --local-build'").
			Wrap(err).
			BuildError()
	}

	if fi, statErr := os.Stat(opts.SandboxDir); statErr == nil {
		if !fi.ModTime().Before(sifInfo.ModTime()) {
			p.log.Info("Sandbox is up to date", "sandbox", opts.SandboxDir)
			return opts.SandboxDir, nil
		}
		if !opts.Yes {
			ok, askErr := p.ask(
				"Rebuild stale sandbox?",
				fmt.Sprintf("%s is older than %s and will be replaced.", opts.SandboxDir, opts.SifPath),
			)
			if askErr != nil {
				return "", askErr
			}
			if !ok {
				return "", fmt.Errorf("%w: declined sandbox rebuild", ErrAborted)
			}
		}
		if err := os.RemoveAll(opts.SandboxDir); err != nil {
			return "", fmt.Errorf("remove stale sandbox: %w", err)
		}
	}

	p.log.Info("Materializing sandbox", "sandbox", opts.SandboxDir, "source", opts.SifPath)
	out, err := p.builder.BuildSandbox(ctx, opts.SandboxDir, opts.SifPath)
	if err != nil {
		p.log.Debug("Builder output", "output", out)
		return "", fmt.Errorf("sandbox build failed: %w", err)
	}
	return opts.SandboxDir, nil
}

// ask wraps the confirm func; with no prompt wired, the safe answer is no.
func (p *Pipeline) ask(title, prompt string) (bool, error) {
	if p.confirm == nil {
		return false, fmt.Errorf("%w: confirmation required but no prompt available (use --yes)", ErrAborted)
	}
	return p.confirm(title, prompt)
}

// scriptBuilderName picks the builder binary the submission script calls:
// the locally detected builder when there is one, otherwise a guess from
// the HPC module name.
func (p *Pipeline) scriptBuilderName(moduleName string) string {
	if p.builder != nil {
		return p.builder.Name()
	}
	if strings.Contains(moduleName, sif.BinarySingularity) {
		return sif.BinarySingularity
	}
	return sif.BinaryApptainer
}

func (r *Result) addStage(name, outcome, detail string) {
	r.Stages = append(r.Stages, StageOutcome{Name: name, Outcome: outcome, Detail: detail})
}

// shortID truncates a sha256 image ID to the 12 characters docker shows.
func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func removeIfExists(path string) {
	if fileExists(path) {
		_ = os.Remove(path)
	}
}

func engineNotAvailableError(engine string) error {
	return issue.NewErrorContext().
		WithOperation("reach container engine").
		WithResource(engine).
		WithSuggestion("Check that " + engine + " is installed and in PATH").
		WithSuggestion("Check that the daemon is running (try: " + engine + " info)").
		WithSuggestion("Run 'robolab doctor' for a full tool report").
		Wrap(&container.ErrEngineNotAvailable{Engine: engine, Reason: "binary missing or daemon unreachable"}).
		BuildError()
}

func containerNotFoundError(engine string, name container.ContainerName) error {
	return issue.NewErrorContext().
		WithOperation("package container").
		WithResource(string(name)).
		WithSuggestion("List containers to check the name (try: " + engine + " ps -a)").
		WithSuggestion("Create and run the container before packaging it").
		Wrap(fmt.Errorf("container %q not found", string(name))).
		BuildError()
}

func imageNotFoundError(engine string, image container.ImageTag) error {
	return issue.NewErrorContext().
		WithOperation("reuse tagged image").
		WithResource(string(image)).
		WithSuggestion("Drop --skip-commit to commit the container first").
		WithSuggestion("List images to check the tag (try: " + engine + " images)").
		Wrap(fmt.Errorf("image %q not found", string(image))).
		BuildError()
}

func exporterNotAvailableError() error {
	return issue.NewErrorContext().
		WithOperation("export OCI archive").
		WithResource(oci.DefaultBinary).
		WithSuggestion("Install skopeo (try: sudo apt install skopeo)").
		WithSuggestion("Run 'robolab doctor' for a full tool report").
		Wrap(errors.New("skopeo not found in PATH")).
		BuildError()
}

func builderNotAvailableError() error {
	return issue.NewErrorContext().
		WithOperation("build SIF image").
		WithSuggestion("Install apptainer or singularity").
		WithSuggestion("Skip --local-build and submit the generated sbatch script on the cluster").
		Wrap(sif.ErrBuilderNotAvailable).
		BuildError()
}

func buildExhaustedError(sifPath string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("build SIF image").
		WithResource(sifPath).
		WithSuggestion("Run 'robolab doctor' to check the builder installation").
		WithSuggestion("Retry with --verbose to see the builder output").
		WithSuggestion("Build on the cluster instead with the generated sbatch script").
		Wrap(fmt.Errorf("all build strategies failed: %w", cause)).
		BuildError()
}
