// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	"errors"
	"fmt"
)

// ErrInvalidStepKind is the sentinel error wrapped by InvalidStepKindError.
var ErrInvalidStepKind = errors.New("invalid step kind")

type (
	// StepKind identifies what a provisioning step does.
	StepKind string

	// InvalidStepKindError is returned when a StepKind is not one of the
	// supported kinds.
	InvalidStepKindError struct {
		Value StepKind
	}
)

const (
	// StepApt installs a list of system packages via apt-get.
	StepApt StepKind = "apt"
	// StepScript runs an inline shell snippet.
	StepScript StepKind = "script"
	// StepRepos clones a set of git repositories into the workspace.
	StepRepos StepKind = "repos"
	// StepVenv creates a Python virtual environment and installs requirements.
	StepVenv StepKind = "venv"
)

// Error implements the error interface.
func (e *InvalidStepKindError) Error() string {
	return fmt.Sprintf("invalid step kind %q (must be one of: apt, script, repos, venv)", string(e.Value))
}

// Unwrap returns ErrInvalidStepKind so callers can use errors.Is for programmatic detection.
func (e *InvalidStepKindError) Unwrap() error { return ErrInvalidStepKind }

// Validate returns an error if the StepKind is not a supported kind.
func (k StepKind) Validate() error {
	switch k {
	case StepApt, StepScript, StepRepos, StepVenv:
		return nil
	default:
		return &InvalidStepKindError{Value: k}
	}
}

// String returns the kind as a plain string.
func (k StepKind) String() string { return string(k) }

// Step is a single provisioning step. Exactly one group of kind-specific
// fields applies, selected by Kind; the others must be left empty.
type Step struct {
	// Name identifies the step in logs and in `provision --only`.
	Name string `json:"name"`
	// Kind selects the step behavior (apt, script, repos, venv).
	Kind StepKind `json:"kind"`
	// Description provides optional help text shown by `provision --list`.
	Description string `json:"description,omitempty"`

	// Packages lists system packages to install (apt only).
	Packages []string `json:"packages,omitempty"`

	// Script is the inline shell snippet to run (script only).
	Script string `json:"script,omitempty"`
	// Creates is a path whose existence marks the script as already applied
	// (script only, optional). Without it the script runs on every apply.
	Creates string `json:"creates,omitempty"`

	// Dest is the base directory for clones, relative to the workspace
	// (repos only, optional; default is the workspace itself).
	Dest string `json:"dest,omitempty"`
	// Repos lists the repositories to clone (repos only).
	Repos []Repo `json:"repos,omitempty"`

	// Path is the virtual environment directory, relative to the workspace
	// (venv only).
	Path string `json:"path,omitempty"`
	// Python is the interpreter used to create the venv (venv only,
	// default "python3").
	Python string `json:"python,omitempty"`
	// Requirements lists requirement files to pip-install (venv only).
	Requirements []string `json:"requirements,omitempty"`
	// PipPackages lists packages to pip-install directly (venv only).
	PipPackages []string `json:"pip_packages,omitempty"`
}

// validateStep checks that a step's kind-specific fields are consistent:
// required fields for its kind are present and fields belonging to other
// kinds are absent.
func validateStep(s *Step, filePath string) error {
	if s.Name == "" {
		return fmt.Errorf("step must have a name in labfile at %s", filePath)
	}
	if err := s.Kind.Validate(); err != nil {
		return fmt.Errorf("step '%s': %w", s.Name, err)
	}

	if s.Kind != StepApt && len(s.Packages) > 0 {
		return fmt.Errorf("step '%s': packages is only valid for apt steps", s.Name)
	}
	if s.Kind != StepScript {
		if s.Script != "" {
			return fmt.Errorf("step '%s': script is only valid for script steps", s.Name)
		}
		if s.Creates != "" {
			return fmt.Errorf("step '%s': creates is only valid for script steps", s.Name)
		}
	}
	if s.Kind != StepRepos {
		if s.Dest != "" {
			return fmt.Errorf("step '%s': dest is only valid for repos steps", s.Name)
		}
		if len(s.Repos) > 0 {
			return fmt.Errorf("step '%s': repos is only valid for repos steps", s.Name)
		}
	}
	if s.Kind != StepVenv {
		if s.Path != "" {
			return fmt.Errorf("step '%s': path is only valid for venv steps", s.Name)
		}
		if s.Python != "" {
			return fmt.Errorf("step '%s': python is only valid for venv steps", s.Name)
		}
		if len(s.Requirements) > 0 {
			return fmt.Errorf("step '%s': requirements is only valid for venv steps", s.Name)
		}
		if len(s.PipPackages) > 0 {
			return fmt.Errorf("step '%s': pip_packages is only valid for venv steps", s.Name)
		}
	}

	switch s.Kind {
	case StepApt:
		if len(s.Packages) == 0 {
			return fmt.Errorf("step '%s': apt steps require a non-empty packages list", s.Name)
		}
	case StepScript:
		if s.Script == "" {
			return fmt.Errorf("step '%s': script steps require a script", s.Name)
		}
	case StepRepos:
		if len(s.Repos) == 0 {
			return fmt.Errorf("step '%s': repos steps require a non-empty repos list", s.Name)
		}
		for i := range s.Repos {
			if err := s.Repos[i].validate(); err != nil {
				return fmt.Errorf("step '%s' repo #%d: %w", s.Name, i+1, err)
			}
		}
	case StepVenv:
		if s.Path == "" {
			return fmt.Errorf("step '%s': venv steps require a path", s.Name)
		}
	}

	return nil
}

// Interpreter returns the Python interpreter for a venv step, applying the
// default when the manifest leaves it unset.
func (s *Step) Interpreter() string {
	if s.Python != "" {
		return s.Python
	}
	return "python3"
}
