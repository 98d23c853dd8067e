// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"robolab-cli/internal/issue"
	"robolab-cli/pkg/labfile"
)

// ScriptStep runs an inline shell snippet. An optional creates path marks
// the step as applied once it exists; without one the snippet runs on every
// apply and must be idempotent on its own.
type ScriptStep struct {
	stepMeta
	script  string
	creates string
	workdir string
	tools   *Toolchain
}

// NewScriptStep builds a script step from its manifest entry. The creates
// path, when relative, is resolved against the workspace directory, which is
// also the snippet's working directory.
func NewScriptStep(s *labfile.Step, workspace string, tc *Toolchain) *ScriptStep {
	return &ScriptStep{
		stepMeta: metaFor(s),
		script:   s.Script,
		creates:  resolvePath(workspace, s.Creates),
		workdir:  workspace,
		tools:    tc,
	}
}

// Check reports done when the creates path exists. Steps without one always
// report pending.
func (s *ScriptStep) Check(_ context.Context) (bool, string, error) {
	if s.creates == "" {
		return false, "runs on every apply", nil
	}
	if _, err := os.Stat(s.creates); err == nil {
		return true, s.creates + " exists", nil
	}
	return false, s.creates + " missing", nil
}

// Apply runs the snippet under bash with errexit semantics.
func (s *ScriptStep) Apply(ctx context.Context) error {
	if err := requireTool(s.tools.Bash, "run provisioning script"); err != nil {
		return err
	}
	if err := ValidateScript(s.Name(), s.script); err != nil {
		return err
	}

	snippet := "set -euo pipefail\n" + s.script
	if err := s.tools.run(ctx, s.tools.Bash, s.workdir, "-c", snippet); err != nil {
		return issue.NewErrorContext().
			WithOperation("run provisioning script").
			WithResource(s.Name()).
			WithSuggestion("The script's own output above names the failing command").
			Wrap(err).
			BuildError()
	}
	return nil
}

// ValidateScript parses a snippet with the shell grammar so a manifest typo
// surfaces as a step error, not as a bash parse failure mid-provisioning.
func ValidateScript(name, script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), name); err != nil {
		return issue.NewErrorContext().
			WithOperation("validate provisioning script").
			WithResource(name).
			WithSuggestion("Fix the shell syntax in the step's script field").
			Wrap(fmt.Errorf("script does not parse: %w", err)).
			BuildError()
	}
	return nil
}

// resolvePath anchors a relative manifest path at the workspace directory.
func resolvePath(workspace, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}
