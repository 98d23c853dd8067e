// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"strings"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/issue"
)

// DefaultBinary is the container engine binary used when the configuration
// does not name one.
const DefaultBinary = "docker"

// ErrEngineNotAvailable is returned when the container engine binary is
// missing or its daemon is not reachable.
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Engine drives the container CLI. It embeds clitool.Tool for command
// execution; all operations are thin argument builders over it.
type Engine struct {
	*clitool.Tool
}

// NewEngine creates a container engine for the given binary name. An empty
// binary selects DefaultBinary. Options are forwarded to the underlying
// tool (tests inject WithExecCommand).
func NewEngine(binary string, opts ...clitool.Option) *Engine {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Engine{Tool: clitool.New(binary, opts...)}
}

// Available checks that the engine binary exists and its daemon responds.
func (e *Engine) Available() bool {
	if !e.Resolved() {
		return false
	}
	cmd := e.CreateCommand(context.Background(), "version", "--format", "{{.Server.Version}}")
	return cmd.Run() == nil
}

// Version returns the engine's server version.
func (e *Engine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", e.Name(), err)
	}
	return strings.TrimSpace(out), nil
}

// ContainerExists checks if a container with the given name exists,
// running or stopped.
func (e *Engine) ContainerExists(ctx context.Context, name ContainerName) (bool, error) {
	err := e.RunCommandStatus(ctx, "container", "inspect", string(name))
	return err == nil, nil
}

// Commit creates an image from the container's current filesystem and
// returns the new image ID.
func (e *Engine) Commit(ctx context.Context, name ContainerName, image ImageTag) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "commit", string(name), string(image))
	if err != nil {
		return "", commitError(e.Name(), name, err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists checks if an image reference resolves in the local daemon.
func (e *Engine) ImageExists(ctx context.Context, image ImageTag) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "inspect", string(image))
	return err == nil, nil
}

// RemoveImage removes an image.
func (e *Engine) RemoveImage(ctx context.Context, image ImageTag, force bool) error {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, string(image))
	return e.RunCommandStatus(ctx, args...)
}

// commitError creates an actionable error for commit failures.
func commitError(engine string, name ContainerName, cause error) error {
	return issue.NewErrorContext().
		WithOperation("commit container").
		WithResource(string(name)).
		WithSuggestion("Verify the container exists (try: " + engine + " ps -a)").
		WithSuggestion("Check that the daemon has disk space for the new image layer").
		Wrap(cause).
		BuildError()
}
