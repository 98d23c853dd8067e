// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"

	"robolab-cli/pkg/labfile"
)

// Plan builds the executable steps for a manifest, in manifest order. Every
// script snippet is syntax-checked here so a typo in step five surfaces
// before step one runs.
func Plan(lf *labfile.Labfile, tc *Toolchain) ([]Step, error) {
	workspace := lf.WorkspaceDir()

	steps := make([]Step, 0, len(lf.Steps))
	for i := range lf.Steps {
		entry := &lf.Steps[i]
		switch entry.Kind {
		case labfile.StepApt:
			steps = append(steps, NewAptStep(entry, tc))
		case labfile.StepScript:
			if err := ValidateScript(entry.Name, entry.Script); err != nil {
				return nil, err
			}
			steps = append(steps, NewScriptStep(entry, workspace, tc))
		case labfile.StepRepos:
			steps = append(steps, NewReposStep(entry, workspace, tc))
		case labfile.StepVenv:
			steps = append(steps, NewVenvStep(entry, workspace, tc))
		default:
			// Parse validation rejects unknown kinds; reaching this means the
			// manifest bypassed it.
			return nil, fmt.Errorf("step %q: %w", entry.Name, &labfile.InvalidStepKindError{Value: entry.Kind})
		}
	}
	return steps, nil
}
