// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"testing"

	"robolab-cli/internal/clitool"
	"robolab-cli/internal/testutil/exectest"
)

func TestHelperProcess(t *testing.T) { exectest.HelperProcess(t) }

// newMockEngine builds an engine whose exec layer is the recorder.
func newMockEngine(t *testing.T, recorder *exectest.Recorder) *Engine {
	t.Helper()
	return NewEngine("docker",
		clitool.WithBinaryPath("/usr/bin/docker"),
		clitool.WithExecCommand(recorder.CommandFunc(t)),
	)
}

func TestNewEngine_DefaultBinary(t *testing.T) {
	t.Parallel()

	e := NewEngine("", clitool.WithBinaryPath("/usr/bin/docker"))
	if e.Name() != DefaultBinary {
		t.Errorf("expected default binary name %q, got %q", DefaultBinary, e.Name())
	}
}

func TestEngine_Version(t *testing.T) {
	recorder := exectest.NewRecorder()
	recorder.Stdout = "28.3.1\n"
	e := newMockEngine(t, recorder)

	version, err := e.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != "28.3.1" {
		t.Errorf("expected version 28.3.1, got %q", version)
	}
	recorder.AssertArgsContainAll(t, []string{"version", "--format"})
}

func TestEngine_ContainerExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		recorder := exectest.NewRecorder()
		e := newMockEngine(t, recorder)

		exists, err := e.ContainerExists(context.Background(), "robot_lab")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Error("expected container to exist")
		}
		recorder.AssertArgsContainAll(t, []string{"container", "inspect", "robot_lab"})
	})

	t.Run("missing", func(t *testing.T) {
		recorder := exectest.NewRecorder()
		recorder.ExitCode = 1
		e := newMockEngine(t, recorder)

		exists, err := e.ContainerExists(context.Background(), "ghost")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exists {
			t.Error("expected container to be missing")
		}
	})
}

func TestEngine_Commit(t *testing.T) {
	t.Run("returns image ID", func(t *testing.T) {
		recorder := exectest.NewRecorder()
		recorder.Stdout = "sha256:f00dcafe\n"
		e := newMockEngine(t, recorder)

		id, err := e.Commit(context.Background(), "robot_lab", "robot_lab_img:latest")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "sha256:f00dcafe" {
			t.Errorf("expected trimmed image ID, got %q", id)
		}
		recorder.AssertArgsContainAll(t, []string{"commit", "robot_lab", "robot_lab_img:latest"})
	})

	t.Run("failure is actionable", func(t *testing.T) {
		recorder := exectest.NewRecorder()
		recorder.ExitCode = 1
		recorder.Stderr = "Error: No such container: robot_lab"
		e := newMockEngine(t, recorder)

		_, err := e.Commit(context.Background(), "robot_lab", "robot_lab_img:latest")
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestEngine_ImageExists(t *testing.T) {
	recorder := exectest.NewRecorder()
	e := newMockEngine(t, recorder)

	exists, err := e.ImageExists(context.Background(), "robot_lab_img:latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected image to exist")
	}
	recorder.AssertArgsContainAll(t, []string{"image", "inspect", "robot_lab_img:latest"})
}

func TestEngine_RemoveImage(t *testing.T) {
	recorder := exectest.NewRecorder()
	e := newMockEngine(t, recorder)

	if err := e.RemoveImage(context.Background(), "robot_lab_img:latest", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recorder.HasArg("-f") {
		t.Errorf("expected -f in args, got %v", recorder.LastArgs())
	}
	recorder.AssertFirstArg(t, "rmi")
}

func TestContainerName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   ContainerName
		wantErr bool
	}{
		{name: "simple", value: "robot_lab", wantErr: false},
		{name: "with dots and dashes", value: "lab.v2-test", wantErr: false},
		{name: "id prefix", value: "3f2a99", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "leading dash", value: "-lab", wantErr: true},
		{name: "spaces", value: "robot lab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ContainerName(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidContainerName) {
				t.Errorf("error does not wrap ErrInvalidContainerName")
			}
		})
	}
}

func TestImageTag_Validate(t *testing.T) {
	t.Parallel()

	if err := ImageTag("robot_lab_img:latest").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ImageTag("").Validate()
	if err == nil {
		t.Fatal("expected error for empty tag")
	}
	if !errors.Is(err, ErrInvalidImageTag) {
		t.Error("error does not wrap ErrInvalidImageTag")
	}
	if err := ImageTag("has space").Validate(); err == nil {
		t.Error("expected error for whitespace")
	}
}

func TestImageTag_WithDefaultTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value ImageTag
		want  ImageTag
	}{
		{name: "bare name gains latest", value: "robot_lab_img", want: "robot_lab_img:latest"},
		{name: "existing tag kept", value: "robot_lab_img:v2", want: "robot_lab_img:v2"},
		{name: "registry port is not a tag", value: "registry:5000/lab/img", want: "registry:5000/lab/img:latest"},
		{name: "registry port with tag kept", value: "registry:5000/lab/img:v2", want: "registry:5000/lab/img:v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.value.WithDefaultTag(); got != tt.want {
				t.Errorf("WithDefaultTag(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestImageTag_Base(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value ImageTag
		want  string
	}{
		{name: "bare name", value: "robot_lab_img", want: "robot_lab_img"},
		{name: "tag stripped", value: "robot_lab_img:latest", want: "robot_lab_img"},
		{name: "registry path stripped", value: "registry:5000/lab/img:v2", want: "img"},
		{name: "namespace stripped", value: "lab/img", want: "img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.value.Base(); got != tt.want {
				t.Errorf("Base(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
