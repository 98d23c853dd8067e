// SPDX-License-Identifier: MPL-2.0

package sif

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/testutil/exectest"
)

func TestHelperProcess(t *testing.T) { exectest.HelperProcess(t) }

// newMockBuilder builds an apptainer builder whose exec layer is the recorder.
func newMockBuilder(t *testing.T, recorder *exectest.Recorder) *Builder {
	t.Helper()
	return NewBuilder(BinaryApptainer,
		clitool.WithBinaryPath("/usr/bin/apptainer"),
		clitool.WithExecCommand(recorder.CommandFunc(t)),
	)
}

// fakeLookPath installs a lookPath stub that resolves only the given
// binaries, restoring the real one on cleanup.
func fakeLookPath(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		for _, bin := range installed {
			if name == bin {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDetect_AutoPrefersApptainer(t *testing.T) {
	fakeLookPath(t, BinaryApptainer, BinarySingularity)

	b, err := Detect("auto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != BinaryApptainer {
		t.Errorf("expected apptainer, got %q", b.Name())
	}
	if b.BinaryPath() != "/usr/bin/apptainer" {
		t.Errorf("expected resolved path, got %q", b.BinaryPath())
	}
}

func TestDetect_AutoFallsBackToSingularity(t *testing.T) {
	fakeLookPath(t, BinarySingularity)

	b, err := Detect("auto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != BinarySingularity {
		t.Errorf("expected singularity fallback, got %q", b.Name())
	}
}

func TestDetect_EmptyPreferenceMeansAuto(t *testing.T) {
	fakeLookPath(t, BinaryApptainer)

	b, err := Detect("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != BinaryApptainer {
		t.Errorf("expected apptainer, got %q", b.Name())
	}
}

func TestDetect_ExplicitPreferenceIsStrict(t *testing.T) {
	// Only apptainer installed, but singularity explicitly requested.
	fakeLookPath(t, BinaryApptainer)

	_, err := Detect(BinarySingularity)
	if err == nil {
		t.Fatal("expected error when the preferred builder is missing")
	}
	if !errors.Is(err, ErrBuilderNotAvailable) {
		t.Errorf("error should wrap ErrBuilderNotAvailable, got: %v", err)
	}
}

func TestDetect_NothingInstalled(t *testing.T) {
	fakeLookPath(t)

	_, err := Detect("auto")
	if err == nil {
		t.Fatal("expected error when no builder is installed")
	}
	if !errors.Is(err, ErrBuilderNotAvailable) {
		t.Errorf("error should wrap ErrBuilderNotAvailable, got: %v", err)
	}
}

func TestDetect_UnknownPreference(t *testing.T) {
	fakeLookPath(t, BinaryApptainer)

	_, err := Detect("docker")
	if err == nil {
		t.Fatal("expected error for an unknown preference")
	}
	if !errors.Is(err, ErrBuilderNotAvailable) {
		t.Errorf("error should wrap ErrBuilderNotAvailable, got: %v", err)
	}
}

func TestBuilder_Version(t *testing.T) {
	recorder := exectest.NewRecorder()
	recorder.Stdout = "1.3.2\n"
	b := newMockBuilder(t, recorder)

	version, err := b.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != "1.3.2" {
		t.Errorf("expected version 1.3.2, got %q", version)
	}
	recorder.AssertFirstArg(t, "version")
}

func TestBuilder_Build_StandardStrategy(t *testing.T) {
	recorder := exectest.NewRecorder()
	recorder.Stdout = "INFO:    Build complete: /out/robot_lab_img.sif\n"
	b := newMockBuilder(t, recorder)

	out, err := b.Build(context.Background(), StrategyStandard, "/out/robot_lab_img.sif", "/out/robot_lab_img.def")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Build complete") {
		t.Errorf("expected builder output, got %q", out)
	}
	recorder.AssertArgsContainAll(t, []string{"build", "/out/robot_lab_img.sif", "/out/robot_lab_img.def"})
	if recorder.HasArg("--fix-perms") || recorder.HasArg("--fakeroot") {
		t.Errorf("standard strategy must not add permission flags, got %v", recorder.LastArgs())
	}
}

func TestBuilder_Build_FixPermsStrategy(t *testing.T) {
	recorder := exectest.NewRecorder()
	b := newMockBuilder(t, recorder)

	_, err := b.Build(context.Background(), StrategyFixPerms, "/out/img.sif", "/out/img.def")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recorder.AssertArgsContainAll(t, []string{"build", "--fix-perms", "/out/img.sif", "/out/img.def"})
}

func TestBuilder_Build_FakerootStrategy(t *testing.T) {
	recorder := exectest.NewRecorder()
	b := newMockBuilder(t, recorder)

	_, err := b.Build(context.Background(), StrategyFakeroot, "/out/img.sif", "/out/img.def")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recorder.AssertArgsContainAll(t, []string{"build", "--fakeroot", "/out/img.sif", "/out/img.def"})
}

func TestBuilder_Build_FailureReturnsOutput(t *testing.T) {
	recorder := exectest.NewRecorder()
	recorder.ExitCode = 255
	recorder.Stderr = "FATAL:   While performing build: permission denied"
	b := newMockBuilder(t, recorder)

	out, err := b.Build(context.Background(), StrategyStandard, "/out/img.sif", "/out/img.def")
	if err == nil {
		t.Fatal("expected error for failed build")
	}
	if !strings.Contains(out, "permission denied") {
		t.Errorf("combined output should surface the builder diagnostics, got %q", out)
	}
}

func TestBuilder_Build_RejectsInvalidStrategy(t *testing.T) {
	recorder := exectest.NewRecorder()
	b := newMockBuilder(t, recorder)

	_, err := b.Build(context.Background(), BuildStrategy("yolo"), "/out/img.sif", "/out/img.def")
	if err == nil {
		t.Fatal("expected error for invalid strategy")
	}
	if !errors.Is(err, ErrInvalidBuildStrategy) {
		t.Errorf("error should wrap ErrInvalidBuildStrategy, got: %v", err)
	}
	recorder.AssertInvocationCount(t, 0)
}

func TestBuilder_BuildSandbox(t *testing.T) {
	recorder := exectest.NewRecorder()
	b := newMockBuilder(t, recorder)

	_, err := b.BuildSandbox(context.Background(), "/out/robot_lab_img", "/out/robot_lab_img.sif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recorder.AssertArgsContainAll(t, []string{"build", "--sandbox", "/out/robot_lab_img", "/out/robot_lab_img.sif"})
}

func TestStrategies_LadderOrder(t *testing.T) {
	t.Parallel()

	ladder := Strategies()
	want := []BuildStrategy{StrategyStandard, StrategyFixPerms, StrategyFakeroot}
	if len(ladder) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(ladder))
	}
	for i, s := range want {
		if ladder[i] != s {
			t.Errorf("strategy %d = %s, want %s", i, ladder[i], s)
		}
	}
}

func TestBuildStrategy_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range Strategies() {
		if valid, errs := s.IsValid(); !valid {
			t.Errorf("%s should be valid, got %v", s, errs)
		}
	}

	valid, errs := BuildStrategy("root").IsValid()
	if valid {
		t.Error("unknown strategy should be invalid")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrInvalidBuildStrategy) {
		t.Error("error should wrap ErrInvalidBuildStrategy")
	}
}
