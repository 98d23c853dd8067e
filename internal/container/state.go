// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"robolab-cli/internal/issue"
)

// stateFormat extracts the fields State needs in one inspect call. Docker
// prints the API's string timestamps verbatim, so both are RFC 3339.
const stateFormat = "{{.State.Running}}|{{.State.FinishedAt}}|{{.Created}}"

// State is a container's lifecycle snapshot as reported by inspect.
type State struct {
	// Running reports whether the container is currently running.
	Running bool
	// Created is when the container was created.
	Created time.Time
	// FinishedAt is when the container last stopped. The zero time means
	// the container has never finished (still running, or never started).
	FinishedAt time.Time
}

// LastActivity returns the timestamp the freshness check compares archives
// against: FinishedAt when the container has finished at least once,
// otherwise Created.
func (s State) LastActivity() time.Time {
	if s.FinishedAt.IsZero() {
		return s.Created
	}
	return s.FinishedAt
}

// State inspects the container and returns its lifecycle snapshot.
// Timestamps are parsed strictly as RFC 3339; a value in any other format
// is an error rather than a guess.
func (e *Engine) State(ctx context.Context, name ContainerName) (State, error) {
	out, err := e.RunCommandWithOutput(ctx, "container", "inspect", "--format", stateFormat, string(name))
	if err != nil {
		return State{}, inspectError(e.Name(), name, err)
	}
	return parseState(strings.TrimSpace(out))
}

// parseState parses the "running|finishedAt|created" inspect output.
func parseState(out string) (State, error) {
	parts := strings.Split(out, "|")
	if len(parts) != 3 {
		return State{}, fmt.Errorf("unexpected inspect output %q (want 3 '|'-separated fields)", out)
	}

	var s State
	switch parts[0] {
	case "true":
		s.Running = true
	case "false":
		s.Running = false
	default:
		return State{}, fmt.Errorf("unexpected running state %q in inspect output", parts[0])
	}

	finishedAt, err := parseDockerTime(parts[1])
	if err != nil {
		return State{}, fmt.Errorf("parse FinishedAt: %w", err)
	}
	created, err := parseDockerTime(parts[2])
	if err != nil {
		return State{}, fmt.Errorf("parse Created: %w", err)
	}

	s.FinishedAt = finishedAt
	s.Created = created
	return s, nil
}

// parseDockerTime parses one of docker's RFC 3339 timestamps. Docker emits
// the zero time as "0001-01-01T00:00:00Z", which parses to a time for which
// IsZero reports true.
func parseDockerTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is not RFC 3339: %w", value, err)
	}
	return t, nil
}

// inspectError creates an actionable error for inspect failures, which
// almost always mean the container does not exist.
func inspectError(engine string, name ContainerName, cause error) error {
	return issue.NewErrorContext().
		WithOperation("inspect container").
		WithResource(string(name)).
		WithSuggestion("List containers to check the name (try: " + engine + " ps -a)").
		WithSuggestion("Create the container before packaging it").
		Wrap(cause).
		BuildError()
}
