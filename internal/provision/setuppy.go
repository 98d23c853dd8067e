// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"os"
	"path/filepath"
)

// setupPy is dropped into checkouts that lack their own packaging metadata.
// It derives the package name from the directory it lands in, so the same
// file serves every repository.
const setupPy = `from pathlib import Path

from setuptools import find_packages, setup

# Dropped in by robolab provisioning for repositories without their own
# packaging metadata. The package name comes from the checkout directory,
# so this file is identical across repositories.
setup_dir = Path(__file__).parent.resolve()

setup(
    name=setup_dir.name.lower(),
    version="1.0",
    description=f"Local development install of {setup_dir.name}",
    packages=find_packages(),
    zip_safe=False,
)
`

// WriteSetupPy emits the generic setup.py into a checkout so it can be
// pip-installed as a local package. Checkouts that already carry packaging
// metadata are left alone.
func WriteSetupPy(dir string) error {
	for _, existing := range []string{"setup.py", "pyproject.toml", "setup.cfg"} {
		if _, err := os.Stat(filepath.Join(dir, existing)); err == nil {
			return nil
		}
	}
	path := filepath.Join(dir, "setup.py")
	if err := os.WriteFile(path, []byte(setupPy), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
