// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"robolab-cli/pkg/labfile"
)

// chdirTemp switches the working directory to a fresh temp dir for the test.
// Not parallel-safe: os.Chdir is process-wide.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	return tmpDir
}

func TestInit_CreatesParsableLabfile(t *testing.T) {
	// Not parallel: os.Chdir is process-wide.
	tmpDir := chdirTemp(t)

	if err := runLabInit(initCmd, nil); err != nil {
		t.Fatalf("runLabInit: %v", err)
	}

	path := filepath.Join(tmpDir, "labfile.cue")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected labfile.cue to exist: %v", err)
	}
	if !strings.Contains(string(data), "steps:") {
		t.Error("generated labfile should declare steps")
	}

	// The scaffold must survive its own parser.
	lf, err := labfile.Parse(path)
	if err != nil {
		t.Fatalf("generated labfile does not parse: %v", err)
	}
	if len(lf.Steps) == 0 {
		t.Error("scaffold should contain example steps")
	}
}

func TestInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	// Not parallel: os.Chdir is process-wide.
	chdirTemp(t)

	if err := os.WriteFile("labfile.cue", []byte("// hand-edited\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := runLabInit(initCmd, nil)
	if err == nil {
		t.Fatal("expected an error when labfile.cue already exists")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error should point at --force, got: %v", err)
	}

	data, err := os.ReadFile("labfile.cue")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "// hand-edited\n" {
		t.Error("existing labfile was overwritten without --force")
	}
}

func TestInit_ForceOverwrites(t *testing.T) {
	// Not parallel: os.Chdir is process-wide.
	chdirTemp(t)

	if err := os.WriteFile("labfile.cue", []byte("// stale\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	initForce = true
	t.Cleanup(func() { initForce = false })

	if err := runLabInit(initCmd, nil); err != nil {
		t.Fatalf("runLabInit with --force: %v", err)
	}

	data, err := os.ReadFile("labfile.cue")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "// stale") {
		t.Error("--force should replace the existing labfile")
	}
}
