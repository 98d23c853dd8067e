// SPDX-License-Identifier: MPL-2.0

// Package oci wraps the skopeo CLI for exporting images out of the
// container daemon into OCI archive tarballs, the interchange format the
// SIF builders consume.
package oci

import (
	"context"
	"fmt"
	"strings"

	"robolab-cli/internal/clitool"
)

// DefaultBinary is the image transport tool binary.
const DefaultBinary = "skopeo"

// Exporter drives the skopeo CLI. It embeds clitool.Tool for command
// execution; all operations are thin argument builders over it.
type Exporter struct {
	*clitool.Tool
}

// NewExporter creates a skopeo exporter. Options are forwarded to the
// underlying tool (tests inject WithExecCommand).
func NewExporter(opts ...clitool.Option) *Exporter {
	return &Exporter{Tool: clitool.New(DefaultBinary, opts...)}
}

// Available reports whether the skopeo binary was found on this system.
func (e *Exporter) Available() bool {
	return e.Resolved()
}

// Version returns skopeo's version string.
func (e *Exporter) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", e.Name(), err)
	}
	return strings.TrimSpace(out), nil
}

// Archive copies an image from the local container daemon into an OCI
// archive tarball at archivePath, overwriting any existing archive.
func (e *Exporter) Archive(ctx context.Context, image, archivePath string) error {
	out, err := e.RunCommandCombined(ctx,
		"copy",
		"docker-daemon:"+image,
		"oci-archive:"+archivePath,
	)
	if err != nil {
		return fmt.Errorf("failed to export %s to OCI archive: %w (output: %s)",
			image, err, strings.TrimSpace(string(out)))
	}
	return nil
}
