// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed labfile_schema.cue
var labfileSchema []byte

// Labfile represents the complete parsed workspace manifest.
type Labfile struct {
	// Version specifies the labfile schema version.
	Version string `json:"version,omitempty"`
	// Name identifies the workspace (used for snapshot file names).
	Name string `json:"name"`
	// Description provides a summary of the workspace.
	Description string `json:"description,omitempty"`
	// Workspace is the base directory for repos/venv steps. Relative paths
	// are resolved against the manifest's own directory. Empty means the
	// manifest's directory itself.
	Workspace string `json:"workspace,omitempty"`
	// Steps defines the provisioning steps, applied in order.
	Steps []Step `json:"steps"`

	// FilePath stores the path this labfile was loaded from (not in CUE).
	FilePath string `json:"-"`
}

// Parse reads and parses a labfile from the given path.
func Parse(path string) (*Labfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labfile at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses labfile content from bytes. The path parameter is used
// for error messages and recorded as FilePath.
func ParseBytes(data []byte, path string) (*Labfile, error) {
	result, err := parseWithSchema(data, path)
	if err != nil {
		return nil, err
	}

	lf := result
	lf.FilePath = path

	if err := lf.validate(); err != nil {
		return nil, err
	}
	return lf, nil
}

// validate checks the labfile for errors the schema cannot express.
func (lf *Labfile) validate() error {
	if len(lf.Steps) == 0 {
		return fmt.Errorf("labfile at %s has no steps defined", lf.FilePath)
	}

	seen := make(map[string]int) // step name -> index (1-based for error messages)
	for i := range lf.Steps {
		s := &lf.Steps[i]
		if err := validateStep(s, lf.FilePath); err != nil {
			return err
		}
		if prev, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate step name '%s' in labfile at %s (steps #%d and #%d)",
				s.Name, lf.FilePath, prev, i+1)
		}
		seen[s.Name] = i + 1
	}
	return nil
}

// GetStep finds a step by name, or nil when absent.
func (lf *Labfile) GetStep(name string) *Step {
	if name == "" {
		return nil
	}
	for i := range lf.Steps {
		if lf.Steps[i].Name == name {
			return &lf.Steps[i]
		}
	}
	return nil
}

// ListSteps returns all step names in manifest order.
func (lf *Labfile) ListSteps() []string {
	names := make([]string, len(lf.Steps))
	for i, s := range lf.Steps {
		names[i] = s.Name
	}
	return names
}

// WorkspaceDir resolves the workspace base directory against the manifest
// location. Relative workspace values (including the empty default) are
// anchored at the labfile's own directory.
func (lf *Labfile) WorkspaceDir() string {
	base := filepath.Dir(lf.FilePath)
	if lf.Workspace == "" {
		return base
	}
	if filepath.IsAbs(lf.Workspace) {
		return lf.Workspace
	}
	return filepath.Join(base, lf.Workspace)
}
