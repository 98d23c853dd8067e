// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"robolab-cli/internal/issue"
	"robolab-cli/internal/logging"
	"robolab-cli/pkg/labfile"
)

type (
	// Outcome classifies what the runner did with one step.
	Outcome string

	// StepStatus records one step's outcome for summaries and listings.
	StepStatus struct {
		Name        string
		Kind        labfile.StepKind
		Description string
		Outcome     Outcome
		Detail      string
	}

	// Summary is the result of a runner pass over all steps.
	Summary struct {
		Statuses []StepStatus
	}

	// Runner executes steps sequentially, stopping on the first error.
	Runner struct {
		steps  []Step
		dryRun bool
		only   map[string]bool
		log    *log.Logger
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)
)

const (
	// OutcomeSatisfied means the step's check reported already applied.
	OutcomeSatisfied Outcome = "satisfied"
	// OutcomePending means the step would apply but did not (dry run).
	OutcomePending Outcome = "pending"
	// OutcomeApplied means the step ran and succeeded.
	OutcomeApplied Outcome = "applied"
	// OutcomeFiltered means the step was excluded by an --only filter.
	OutcomeFiltered Outcome = "filtered"
	// OutcomeFailed means the step's check or apply returned an error.
	OutcomeFailed Outcome = "failed"
)

// WithDryRun makes the runner report what it would do without applying.
func WithDryRun() RunnerOption {
	return func(r *Runner) { r.dryRun = true }
}

// WithOnly restricts the run to the named steps; others report filtered.
func WithOnly(names []string) RunnerOption {
	return func(r *Runner) {
		if len(names) == 0 {
			return
		}
		r.only = make(map[string]bool, len(names))
		for _, n := range names {
			r.only[n] = true
		}
	}
}

// NewRunner creates a runner over the given steps.
func NewRunner(steps []Step, opts ...RunnerOption) *Runner {
	r := &Runner{
		steps: steps,
		log:   logging.WithPrefix("provision"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run walks the steps in order. The returned summary covers every step the
// runner reached, including the failing one.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := r.validateOnly(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, step := range r.steps {
		status := StepStatus{
			Name:        step.Name(),
			Kind:        step.Kind(),
			Description: step.Description(),
		}

		if r.only != nil && !r.only[step.Name()] {
			status.Outcome = OutcomeFiltered
			summary.Statuses = append(summary.Statuses, status)
			continue
		}

		done, detail, err := step.Check(ctx)
		if err != nil {
			status.Outcome = OutcomeFailed
			status.Detail = err.Error()
			summary.Statuses = append(summary.Statuses, status)
			return summary, fmt.Errorf("step %q: %w", step.Name(), err)
		}
		status.Detail = detail

		switch {
		case done:
			r.log.Info("Step already applied, skipping", "step", step.Name(), "detail", detail)
			status.Outcome = OutcomeSatisfied
		case r.dryRun:
			r.log.Info("Step pending (dry run)", "step", step.Name(), "detail", detail)
			status.Outcome = OutcomePending
		default:
			r.log.Info("Applying step", "step", step.Name(), "kind", step.Kind())
			if err := step.Apply(ctx); err != nil {
				status.Outcome = OutcomeFailed
				status.Detail = err.Error()
				summary.Statuses = append(summary.Statuses, status)
				return summary, fmt.Errorf("step %q: %w", step.Name(), err)
			}
			status.Outcome = OutcomeApplied
		}
		summary.Statuses = append(summary.Statuses, status)
	}
	return summary, nil
}

// validateOnly rejects --only names that match no step, before anything runs.
func (r *Runner) validateOnly() error {
	if r.only == nil {
		return nil
	}
	known := make(map[string]bool, len(r.steps))
	for _, s := range r.steps {
		known[s.Name()] = true
	}
	for name := range r.only {
		if !known[name] {
			return issue.NewErrorContext().
				WithOperation("select provisioning steps").
				WithResource(name).
				WithSuggestion("List the manifest's steps with 'robolab provision --list'").
				Wrap(fmt.Errorf("no step named %q", name)).
				BuildError()
		}
	}
	return nil
}

// Counts tallies the summary's outcomes for log lines and exit summaries.
func (s *Summary) Counts() (applied, satisfied, pending, filtered int) {
	for _, st := range s.Statuses {
		switch st.Outcome {
		case OutcomeApplied:
			applied++
		case OutcomeSatisfied:
			satisfied++
		case OutcomePending:
			pending++
		case OutcomeFiltered:
			filtered++
		}
	}
	return applied, satisfied, pending, filtered
}
