// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	"fmt"
	"strings"
)

// Repo describes a git repository cloned by a repos step.
type Repo struct {
	// URL is the clone URL (https or ssh).
	URL string `json:"url"`
	// Ref is an optional branch or tag passed to git clone --branch.
	Ref string `json:"ref,omitempty"`
	// Dest overrides the checkout directory name derived from the URL.
	Dest string `json:"dest,omitempty"`
	// Submodules enables --recurse-submodules.
	Submodules bool `json:"submodules,omitempty"`
	// SetupPy emits a minimal setup.py into the checkout so the repo
	// pip-installs as a local package named after its directory.
	SetupPy bool `json:"setup_py,omitempty"`
}

// validate checks that the repo entry is usable.
func (r *Repo) validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("repo must have a url")
	}
	if r.DirName() == "" {
		return fmt.Errorf("cannot derive a directory name from url %q; set dest explicitly", r.URL)
	}
	return nil
}

// DirName returns the checkout directory name: Dest when set, otherwise the
// last path element of the URL with a trailing ".git" stripped.
func (r *Repo) DirName() string {
	if r.Dest != "" {
		return r.Dest
	}
	url := strings.TrimSuffix(strings.TrimRight(r.URL, "/"), ".git")
	if idx := strings.LastIndexAny(url, "/:"); idx >= 0 {
		url = url[idx+1:]
	}
	return url
}
