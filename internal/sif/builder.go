// SPDX-License-Identifier: MPL-2.0

package sif

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"robolab-cli/internal/clitool"
)

const (
	// BinaryApptainer is the preferred SIF builder binary.
	BinaryApptainer = "apptainer"
	// BinarySingularity is the fallback SIF builder binary.
	BinarySingularity = "singularity"
)

// ErrBuilderNotAvailable is returned when no usable SIF builder binary is
// found on the system.
var ErrBuilderNotAvailable = errors.New("no SIF builder available")

// lookPath resolves builder binaries; tests swap it out to simulate
// different installations.
var lookPath = exec.LookPath

// Builder drives the apptainer or singularity CLI. It embeds clitool.Tool
// for command execution; all operations are thin argument builders over it.
type Builder struct {
	*clitool.Tool
}

// NewBuilder creates a Builder for the given binary name. Options are
// forwarded to the underlying tool (tests inject WithExecCommand).
func NewBuilder(binary string, opts ...clitool.Option) *Builder {
	return &Builder{Tool: clitool.New(binary, opts...)}
}

// Detect resolves a SIF builder according to the preference. "auto" (or
// empty) tries apptainer first, then singularity; an explicit preference
// selects that binary only. Options are forwarded to the constructed
// builder.
func Detect(prefer string, opts ...clitool.Option) (*Builder, error) {
	var candidates []string
	switch prefer {
	case "", "auto":
		candidates = []string{BinaryApptainer, BinarySingularity}
	case BinaryApptainer, BinarySingularity:
		candidates = []string{prefer}
	default:
		return nil, fmt.Errorf("%w: unknown builder preference %q", ErrBuilderNotAvailable, prefer)
	}

	for _, name := range candidates {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		bopts := append([]clitool.Option{clitool.WithBinaryPath(path)}, opts...)
		return NewBuilder(name, bopts...), nil
	}

	return nil, fmt.Errorf("%w: no usable binary among %s", ErrBuilderNotAvailable, strings.Join(candidates, ", "))
}

// Version returns the builder's version string.
func (b *Builder) Version(ctx context.Context) (string, error) {
	out, err := b.RunCommandWithOutput(ctx, "version")
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", b.Name(), err)
	}
	return strings.TrimSpace(out), nil
}

// Build runs one build attempt with the given strategy, producing a SIF
// image from a definition file. The builder's combined output is returned
// even on failure so callers can log the tool's own diagnostics; success
// or failure of the overall build is judged by whether the image landed on
// disk, not by this attempt's error alone.
func (b *Builder) Build(ctx context.Context, strategy BuildStrategy, sifPath, defPath string) (string, error) {
	if valid, errs := strategy.IsValid(); !valid {
		return "", errors.Join(errs...)
	}
	args := append([]string{"build"}, strategy.Flags()...)
	args = append(args, sifPath, defPath)
	out, err := b.RunCommandCombined(ctx, args...)
	return string(out), err
}

// BuildSandbox materializes a writable sandbox directory from a source,
// typically an already-built SIF image.
func (b *Builder) BuildSandbox(ctx context.Context, sandboxDir, source string) (string, error) {
	out, err := b.RunCommandCombined(ctx, "build", "--sandbox", sandboxDir, source)
	return string(out), err
}
