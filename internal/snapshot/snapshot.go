// SPDX-License-Identifier: MPL-2.0

// Package snapshot captures the active Python environment's installed
// packages into a versioned requirements file, so a provisioned workspace
// can be reproduced elsewhere.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
)

// DefaultInterpreter is used when no virtual environment is active.
const DefaultInterpreter = "python3"

// Snapshotter freezes the active Python environment. The interpreter is the
// active virtual environment's own python when VIRTUAL_ENV is set, so the
// snapshot reflects the environment the operator is working in, not the
// system installation.
type Snapshotter struct {
	python *clitool.Tool
	log    *log.Logger
}

// New creates a Snapshotter for the currently active environment.
func New(opts ...clitool.Option) *Snapshotter {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		opts = append([]clitool.Option{
			clitool.WithBinaryPath(filepath.Join(venv, "bin", "python")),
		}, opts...)
	}
	return &Snapshotter{
		python: clitool.New(DefaultInterpreter, opts...),
		log:    logging.WithPrefix("snapshot"),
	}
}

// InterpreterPath returns the resolved python binary the snapshot runs with.
func (s *Snapshotter) InterpreterPath() string {
	return s.python.BinaryPath()
}

// EnvName resolves the active environment's name: the basename of
// VIRTUAL_ENV, then the active conda environment, then "global".
func (s *Snapshotter) EnvName() string {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		return filepath.Base(venv)
	}
	if conda := os.Getenv("CONDA_DEFAULT_ENV"); conda != "" {
		return conda
	}
	return "global"
}

// PythonVersion reports the interpreter's major.minor version.
func (s *Snapshotter) PythonVersion(ctx context.Context) (string, error) {
	out, err := s.python.RunCommandWithOutput(ctx,
		"-c", `import sys; print("%d.%d" % sys.version_info[:2])`)
	if err != nil {
		return "", s.pythonError("query interpreter version", err)
	}
	return strings.TrimSpace(out), nil
}

// Freeze returns the environment's installed packages in pip's freeze format.
func (s *Snapshotter) Freeze(ctx context.Context) (string, error) {
	out, err := s.python.RunCommandWithOutput(ctx, "-m", "pip", "list", "--format=freeze")
	if err != nil {
		return "", s.pythonError("freeze installed packages", err)
	}
	return out, nil
}

// Write snapshots the environment into dir/requirements/, named
// <env>-python-<version>.txt, and returns the file's path.
func (s *Snapshotter) Write(ctx context.Context, dir string) (string, error) {
	version, err := s.PythonVersion(ctx)
	if err != nil {
		return "", err
	}
	frozen, err := s.Freeze(ctx)
	if err != nil {
		return "", err
	}

	reqDir := filepath.Join(dir, "requirements")
	if err := os.MkdirAll(reqDir, 0o755); err != nil {
		return "", fmt.Errorf("create requirements directory: %w", err)
	}

	path := filepath.Join(reqDir, fmt.Sprintf("%s-python-%s.txt", s.EnvName(), version))
	if err := os.WriteFile(path, []byte(frozen), 0o644); err != nil {
		return "", fmt.Errorf("write requirements file: %w", err)
	}

	s.log.Info("Requirements saved", "path", path, "env", s.EnvName(), "python", version)
	return path, nil
}

func (s *Snapshotter) pythonError(operation string, cause error) error {
	resource := s.python.BinaryPath()
	if resource == "" {
		resource = s.python.Name()
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestion("Activate the environment you want to snapshot first").
		WithSuggestion("Check that pip is importable (try: python3 -m pip --version)").
		Wrap(cause).
		BuildError()
}
