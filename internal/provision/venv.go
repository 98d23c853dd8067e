// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
	"robolab-cli/pkg/labfile"
)

// VenvStep creates a Python virtual environment, upgrades pip, and installs
// the manifest's requirement files and packages. The step is done once the
// environment's activate script exists.
type VenvStep struct {
	stepMeta
	venvPath     string
	interpreter  *clitool.Tool
	requirements []string
	pipPackages  []string
	tools        *Toolchain
	log          *log.Logger
}

// NewVenvStep builds a venv step from its manifest entry. The venv path and
// requirement files, when relative, are resolved against the workspace
// directory.
func NewVenvStep(s *labfile.Step, workspace string, tc *Toolchain) *VenvStep {
	reqs := make([]string, len(s.Requirements))
	for i, r := range s.Requirements {
		reqs[i] = resolvePath(workspace, r)
	}
	return &VenvStep{
		stepMeta:     metaFor(s),
		venvPath:     resolvePath(workspace, s.Path),
		interpreter:  tc.interpreterTool(s.Interpreter()),
		requirements: reqs,
		pipPackages:  s.PipPackages,
		tools:        tc,
		log:          logging.WithPrefix("provision"),
	}
}

// Check looks for the environment's activate script.
func (s *VenvStep) Check(_ context.Context) (bool, string, error) {
	activate := filepath.Join(s.venvPath, "bin", "activate")
	if _, err := os.Stat(activate); err == nil {
		return true, "environment exists at " + s.venvPath, nil
	}
	return false, "no environment at " + s.venvPath, nil
}

// Apply creates the environment and installs into it.
func (s *VenvStep) Apply(ctx context.Context) error {
	if err := requireTool(s.interpreter, "create virtual environment",
		"Install Python 3 (try: sudo apt install python3 python3-venv)"); err != nil {
		return err
	}

	s.log.Info("Creating virtual environment", "path", s.venvPath, "python", s.interpreter.Name())
	if err := s.tools.run(ctx, s.interpreter, "", "-m", "venv", s.venvPath); err != nil {
		return venvError(s.venvPath, "create virtual environment", err)
	}

	pip := s.tools.venvTool("pip", filepath.Join(s.venvPath, "bin", "pip"))
	if err := s.tools.run(ctx, pip, "", "install", "--upgrade", "pip"); err != nil {
		return venvError(s.venvPath, "upgrade pip", err)
	}

	for _, req := range s.requirements {
		if _, err := os.Stat(req); err != nil {
			return issue.NewErrorContext().
				WithOperation("install requirements").
				WithResource(req).
				WithSuggestion("Check the requirements path in the manifest").
				WithSuggestion("Generate one from a working environment with 'robolab snapshot'").
				Wrap(fmt.Errorf("requirements file not found: %w", err)).
				BuildError()
		}
		s.log.Info("Installing requirements", "file", req)
		if err := s.tools.run(ctx, pip, "", "install", "-r", req); err != nil {
			return venvError(s.venvPath, "install requirements from "+filepath.Base(req), err)
		}
	}

	if len(s.pipPackages) > 0 {
		s.log.Info("Installing packages", "count", len(s.pipPackages))
		args := append([]string{"install"}, s.pipPackages...)
		if err := s.tools.run(ctx, pip, "", args...); err != nil {
			return venvError(s.venvPath, "install packages", err)
		}
	}
	return nil
}

func venvError(venvPath, operation string, cause error) error {
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(venvPath).
		WithSuggestion("Check that python3-venv is installed (try: sudo apt install python3-venv)").
		WithSuggestion("Remove the environment directory and re-run provisioning").
		Wrap(cause).
		BuildError()
}
