// SPDX-License-Identifier: MPL-2.0

package clitool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Tool.
	Option func(*Tool)

	// Tool wraps a single external CLI binary. The zero value is not usable;
	// construct with New.
	Tool struct {
		name        string // Tool name for error messages (e.g., "docker", "skopeo")
		binaryPath  string // Resolved at construction via exec.LookPath
		execCommand ExecCommandFunc
	}
)

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(t *Tool) {
		t.execCommand = fn
	}
}

// WithBinaryPath overrides binary resolution with an explicit path.
// Used when the config names a specific binary and by tests.
func WithBinaryPath(path string) Option {
	return func(t *Tool) {
		t.binaryPath = path
	}
}

// New creates a Tool for the named binary. When no WithBinaryPath override
// is given, the binary is resolved via exec.LookPath; a missing binary
// leaves the path empty and Resolved() reports false.
func New(name string, opts ...Option) *Tool {
	t := &Tool{
		name:        name,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.binaryPath == "" {
		path, _ := exec.LookPath(name)
		t.binaryPath = path
	}
	return t
}

// Name returns the tool name used in error messages.
func (t *Tool) Name() string {
	return t.name
}

// BinaryPath returns the resolved path to the tool binary.
func (t *Tool) BinaryPath() string {
	return t.binaryPath
}

// Resolved reports whether the tool binary was found on this system.
func (t *Tool) Resolved() bool {
	return t.binaryPath != ""
}

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (t *Tool) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return t.execCommand(ctx, t.binaryPath, args...)
}

// RunCommand executes a command and returns its stdout.
// This is the low-level execution method used by concrete engines.
func (t *Tool) RunCommand(ctx context.Context, args ...string) ([]byte, error) {
	cmd := t.CreateCommand(ctx, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("command %s %v failed: %w", t.binaryPath, args, err)
	}
	return out, nil
}

// RunCommandCombined executes a command and returns combined stdout/stderr.
// On failure the combined output is returned alongside the error so callers
// can surface the tool's own diagnostics.
func (t *Tool) RunCommandCombined(ctx context.Context, args ...string) ([]byte, error) {
	cmd := t.CreateCommand(ctx, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("command %s %v failed: %w", t.binaryPath, args, err)
	}
	return out, nil
}

// RunCommandStatus executes a command and returns only the error status.
func (t *Tool) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := t.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", t.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (t *Tool) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := t.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", t.binaryPath, args, err)
	}

	return out.String(), nil
}
