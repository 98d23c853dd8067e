// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LabfileName is the standard base name for workspace manifests.
const LabfileName = "labfile"

// ValidExtensions lists valid file extensions for a labfile, in preference
// order.
var ValidExtensions = []string{".cue", ""}

// ErrNotFound is returned by Discover when no manifest exists at the
// explicit path or in the search directory.
var ErrNotFound = errors.New("no labfile found")

// Discover resolves the manifest path. When explicit is non-empty it must
// name an existing file. Otherwise the dir is searched for "labfile.cue"
// then "labfile".
func Discover(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("labfile %s: %w", explicit, err)
		}
		return explicit, nil
	}

	for _, ext := range ValidExtensions {
		candidate := filepath.Join(dir, LabfileName+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s.cue and %s)", ErrNotFound, dir, LabfileName, LabfileName)
}
