// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"

	"robolab-cli/internal/issue"
	"robolab-cli/pkg/labfile"
)

// AptStep installs a list of system packages. The step is done when every
// package reports installed via dpkg; Apply hands the full list to apt-get,
// which ignores the already-installed ones.
type AptStep struct {
	stepMeta
	packages []string
	tools    *Toolchain
}

// NewAptStep builds an apt step from its manifest entry.
func NewAptStep(s *labfile.Step, tc *Toolchain) *AptStep {
	return &AptStep{
		stepMeta: metaFor(s),
		packages: s.Packages,
		tools:    tc,
	}
}

// Check queries dpkg for each package.
func (s *AptStep) Check(ctx context.Context) (bool, string, error) {
	if err := requireTool(s.tools.Dpkg, "check installed packages",
		"apt steps require a Debian or Ubuntu system"); err != nil {
		return false, "", err
	}

	missing := 0
	for _, pkg := range s.packages {
		if err := s.tools.Dpkg.RunCommandStatus(ctx, "-s", pkg); err != nil {
			missing++
		}
	}
	if missing == 0 {
		return true, fmt.Sprintf("all %d packages installed", len(s.packages)), nil
	}
	return false, fmt.Sprintf("%d of %d packages missing", missing, len(s.packages)), nil
}

// Apply installs the package list.
func (s *AptStep) Apply(ctx context.Context) error {
	if err := requireTool(s.tools.AptGet, "install packages",
		"apt steps require a Debian or Ubuntu system"); err != nil {
		return err
	}

	args := append([]string{"install", "-y"}, s.packages...)
	if err := s.tools.run(ctx, s.tools.AptGet, "", args...); err != nil {
		return issue.NewErrorContext().
			WithOperation("install packages").
			WithResource(s.Name()).
			WithSuggestion("Re-run with sudo; installing packages needs root").
			WithSuggestion("Refresh the package index first (try: sudo apt-get update)").
			Wrap(err).
			BuildError()
	}
	return nil
}
