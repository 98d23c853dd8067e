// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"testing"
	"time"

	"robolab-cli/internal/testutil/exectest"
)

func TestEngine_State(t *testing.T) {
	t.Run("stopped container", func(t *testing.T) {
		recorder := mockRecorderWithState(t, "false|2024-03-01T17:22:08.123456789Z|2024-02-20T09:00:00Z")
		e := newMockEngine(t, recorder)

		state, err := e.State(context.Background(), "robot_lab")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Running {
			t.Error("expected stopped container")
		}
		wantFinished := time.Date(2024, 3, 1, 17, 22, 8, 123456789, time.UTC)
		if !state.FinishedAt.Equal(wantFinished) {
			t.Errorf("FinishedAt = %v, want %v", state.FinishedAt, wantFinished)
		}
		if !state.LastActivity().Equal(wantFinished) {
			t.Errorf("LastActivity should be FinishedAt, got %v", state.LastActivity())
		}
	})

	t.Run("never-finished container falls back to Created", func(t *testing.T) {
		recorder := mockRecorderWithState(t, "true|0001-01-01T00:00:00Z|2024-02-20T09:00:00Z")
		e := newMockEngine(t, recorder)

		state, err := e.State(context.Background(), "robot_lab")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !state.Running {
			t.Error("expected running container")
		}
		if !state.FinishedAt.IsZero() {
			t.Errorf("expected zero FinishedAt, got %v", state.FinishedAt)
		}
		wantCreated := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
		if !state.LastActivity().Equal(wantCreated) {
			t.Errorf("LastActivity should fall back to Created, got %v", state.LastActivity())
		}
	})

	t.Run("missing container", func(t *testing.T) {
		recorder := mockRecorderWithState(t, "")
		recorder.ExitCode = 1
		recorder.Stderr = "Error: No such container: ghost"
		e := newMockEngine(t, recorder)

		if _, err := e.State(context.Background(), "ghost"); err == nil {
			t.Fatal("expected error for missing container")
		}
	})
}

func TestParseState_StrictTimestamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		out     string
		wantErr bool
	}{
		{name: "nanosecond precision", out: "false|2024-03-01T17:22:08.123456789Z|2024-02-20T09:00:00Z"},
		{name: "second precision", out: "false|2024-03-01T17:22:08Z|2024-02-20T09:00:00Z"},
		{name: "timezone offset", out: "false|2024-03-01T17:22:08+02:00|2024-02-20T09:00:00Z"},
		{
			name: "locale date format rejected",
			// The shape a shell `date` emits; silently accepting it is how
			// the GNU/BSD portability bug slipped in.
			out:     "false|Fri Mar  1 17:22:08 UTC 2024|2024-02-20T09:00:00Z",
			wantErr: true,
		},
		{name: "epoch seconds rejected", out: "false|1709313728|2024-02-20T09:00:00Z", wantErr: true},
		{name: "wrong field count", out: "false|2024-03-01T17:22:08Z", wantErr: true},
		{name: "garbage running field", out: "maybe|2024-03-01T17:22:08Z|2024-02-20T09:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseState(tt.out)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseState(%q) error = %v, wantErr %v", tt.out, err, tt.wantErr)
			}
		})
	}
}

// mockRecorderWithState scripts the inspect --format call used by State.
func mockRecorderWithState(t *testing.T, out string) *exectest.Recorder {
	t.Helper()
	recorder := exectest.NewRecorder()
	recorder.Stdout = out
	return recorder
}
