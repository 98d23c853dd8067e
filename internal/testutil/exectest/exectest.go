// SPDX-License-Identifier: MPL-2.0

// Package exectest provides exec.Command mocking for engine and pipeline
// tests using the TestHelperProcess pattern.
//
// Each test package using the Recorder must declare the helper entry point
// in one of its _test.go files:
//
//	func TestHelperProcess(t *testing.T) { exectest.HelperProcess(t) }
//
// The recorder re-invokes the test binary with -test.run=TestHelperProcess,
// so the entry point must exist in the same package's test binary.
package exectest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

type (
	// Recorder captures arguments passed to exec.Command for verification
	// and scripts the simulated processes' outputs and exit codes.
	Recorder struct {
		// Invocations records each call to the mock exec.Command.
		Invocations []Invocation
		// ExitCode is the default exit code to return (0 = success).
		ExitCode int
		// Stdout is the default output to write to stdout.
		Stdout string
		// Stderr is the default output to write to stderr.
		Stderr string

		// rules are consulted in order; the first match overrides the
		// defaults for that invocation.
		rules []rule
	}

	// Invocation represents a single invocation of exec.Command.
	Invocation struct {
		// Name is the command name (e.g., "docker", "apptainer").
		Name string
		// Args are the arguments passed to the command.
		Args []string
	}

	// Response scripts the behavior of a simulated process.
	Response struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	rule struct {
		contains string
		response Response
	}
)

// NewRecorder creates a recorder with default settings (success, no output).
func NewRecorder() *Recorder {
	return &Recorder{
		Invocations: make([]Invocation, 0),
		ExitCode:    0,
	}
}

// RespondWith scripts the response for invocations whose space-joined
// arguments contain the given token. Rules are matched in the order they
// were added; the first match wins. Invocations matching no rule fall back
// to the recorder-level defaults.
func (m *Recorder) RespondWith(token string, r Response) {
	m.rules = append(m.rules, rule{contains: token, response: r})
}

// CommandFunc returns a function that can replace an engine's ExecCommandFunc.
// The function records invocations and returns a command that runs
// TestHelperProcess in the caller's test binary.
func (m *Recorder) CommandFunc(t *testing.T) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		m.Invocations = append(m.Invocations, Invocation{
			Name: name,
			Args: args,
		})

		resp := Response{Stdout: m.Stdout, Stderr: m.Stderr, ExitCode: m.ExitCode}
		joined := strings.Join(args, " ")
		for _, r := range m.rules {
			if strings.Contains(joined, r.contains) {
				resp = r.response
				break
			}
		}

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.Command(os.Args[0], cs...) //nolint:noctx // exec.Command used intentionally for test helper
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", resp.ExitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", resp.Stdout),
			fmt.Sprintf("GO_HELPER_STDERR=%s", resp.Stderr),
		}
		return cmd
	}
}

// LastInvocation returns the most recent invocation, or nil if none.
func (m *Recorder) LastInvocation() *Invocation {
	if len(m.Invocations) == 0 {
		return nil
	}
	return &m.Invocations[len(m.Invocations)-1]
}

// LastArgs returns the arguments from the most recent invocation.
func (m *Recorder) LastArgs() []string {
	if inv := m.LastInvocation(); inv != nil {
		return inv.Args
	}
	return nil
}

// InvocationContaining returns the first invocation whose space-joined
// arguments contain the token, or nil if none matches.
func (m *Recorder) InvocationContaining(token string) *Invocation {
	for i := range m.Invocations {
		if strings.Contains(strings.Join(m.Invocations[i].Args, " "), token) {
			return &m.Invocations[i]
		}
	}
	return nil
}

// AssertCommandName verifies the last command name matches.
func (m *Recorder) AssertCommandName(t *testing.T, expected string) {
	t.Helper()
	if inv := m.LastInvocation(); inv == nil {
		t.Errorf("expected command %q but no commands were invoked", expected)
	} else if inv.Name != expected {
		t.Errorf("expected command %q, got %q", expected, inv.Name)
	}
}

// AssertArgsContain verifies that the last invocation args contain the expected string.
func (m *Recorder) AssertArgsContain(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	if !strings.Contains(argsStr, expected) {
		t.Errorf("expected args to contain %q, got: %v", expected, args)
	}
}

// AssertArgsContainAll verifies that the last invocation args contain all expected strings.
func (m *Recorder) AssertArgsContainAll(t *testing.T, expected []string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	for _, exp := range expected {
		if !strings.Contains(argsStr, exp) {
			t.Errorf("expected args to contain %q, got: %v", exp, args)
		}
	}
}

// AssertArgsNotContain verifies that the last invocation args do NOT contain the expected string.
func (m *Recorder) AssertArgsNotContain(t *testing.T, unexpected string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	if strings.Contains(argsStr, unexpected) {
		t.Errorf("expected args to NOT contain %q, got: %v", unexpected, args)
	}
}

// AssertFirstArg verifies the first argument (subcommand) matches.
func (m *Recorder) AssertFirstArg(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	if len(args) == 0 {
		t.Errorf("expected first arg %q but args are empty", expected)
		return
	}
	if args[0] != expected {
		t.Errorf("expected first arg %q, got %q", expected, args[0])
	}
}

// AssertInvocationCount verifies the number of command invocations.
func (m *Recorder) AssertInvocationCount(t *testing.T, expected int) {
	t.Helper()
	if len(m.Invocations) != expected {
		t.Errorf("expected %d invocations, got %d", expected, len(m.Invocations))
	}
}

// AssertNoInvocationContaining verifies that no recorded invocation's
// arguments contain the token.
func (m *Recorder) AssertNoInvocationContaining(t *testing.T, token string) {
	t.Helper()
	if inv := m.InvocationContaining(token); inv != nil {
		t.Errorf("expected no invocation containing %q, got: %v", token, inv.Args)
	}
}

// HasArg checks if the last invocation contains a specific argument.
func (m *Recorder) HasArg(arg string) bool {
	return slices.Contains(m.LastArgs(), arg)
}

// HasArgPair checks if the last invocation contains a flag-value pair (e.g., "-t", "myimage").
func (m *Recorder) HasArgPair(flag, value string) bool {
	args := m.LastArgs()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// Reset clears all recorded invocations and scripted rules.
func (m *Recorder) Reset() {
	m.Invocations = m.Invocations[:0]
	m.rules = m.rules[:0]
}

// HelperProcess simulates command execution inside the re-invoked test
// binary. It reads its behavior from environment variables set by
// CommandFunc and never returns. Call it from the package's
// TestHelperProcess entry point only.
func HelperProcess(t *testing.T) {
	t.Helper()
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}
	os.Exit(exitCode)
}
