// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/issue"
)

// Toolchain bundles the external binaries provisioning shells out to. All
// tools share the same construction options so tests can inject a single
// recorder across the whole chain.
type Toolchain struct {
	Dpkg   *clitool.Tool
	AptGet *clitool.Tool
	Bash   *clitool.Tool
	Git    *clitool.Tool
	Python *clitool.Tool

	// Stream receives the live output of provisioning commands. Package
	// installs and source builds run for minutes; the operator watches them
	// here instead of waiting on a silent prompt.
	Stream io.Writer

	opts []clitool.Option
}

// NewToolchain resolves the provisioning binaries.
func NewToolchain(opts ...clitool.Option) *Toolchain {
	return &Toolchain{
		Dpkg:   clitool.New("dpkg", opts...),
		AptGet: clitool.New("apt-get", opts...),
		Bash:   clitool.New("bash", opts...),
		Git:    clitool.New("git", opts...),
		Python: clitool.New("python3", opts...),
		Stream: os.Stderr,
		opts:   opts,
	}
}

// venvTool wraps a binary that only exists once an earlier command has run,
// such as a virtual environment's own pip. The explicit path wins over any
// construction-time override.
func (tc *Toolchain) venvTool(name, path string) *clitool.Tool {
	opts := append([]clitool.Option{}, tc.opts...)
	opts = append(opts, clitool.WithBinaryPath(path))
	return clitool.New(name, opts...)
}

// interpreterTool resolves a non-default Python interpreter named by the
// manifest.
func (tc *Toolchain) interpreterTool(name string) *clitool.Tool {
	if name == tc.Python.Name() {
		return tc.Python
	}
	return clitool.New(name, tc.opts...)
}

// run executes a tool with its output streamed, in dir when non-empty. The
// command's diagnostics have already reached the operator when an error is
// returned, so the error carries the invocation, not the output.
func (tc *Toolchain) run(ctx context.Context, t *clitool.Tool, dir string, args ...string) error {
	cmd := t.CreateCommand(ctx, args...)
	cmd.Dir = dir
	cmd.Stdout = tc.Stream
	cmd.Stderr = tc.Stream
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", t.Name(), strings.Join(args, " "), err)
	}
	return nil
}

// requireTool fails with an actionable error when a binary was not found on
// this system.
func requireTool(t *clitool.Tool, operation string, suggestions ...string) error {
	if t.Resolved() {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(t.Name()).
		WithSuggestions(suggestions...).
		WithSuggestion("Run 'robolab doctor' for a full tool report").
		Wrap(fmt.Errorf("%s not found in PATH", t.Name())).
		BuildError()
}
