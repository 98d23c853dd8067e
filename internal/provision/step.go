// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"

	"robolab-cli/pkg/labfile"
)

// Step is a single idempotent provisioning action. Check reports whether the
// step's effect is already materialized; Apply performs it. Apply is only
// called when Check reported false, but implementations still skip work that
// turns out to be done (a repos step re-checks each clone individually).
type Step interface {
	// Name identifies the step in logs and in --only filters.
	Name() string
	// Kind reports the manifest kind this step was built from.
	Kind() labfile.StepKind
	// Description returns the manifest's optional help text.
	Description() string
	// Check reports whether the step is already applied. The detail string
	// explains the verdict for logs and step listings.
	Check(ctx context.Context) (done bool, detail string, err error)
	// Apply materializes the step's effect.
	Apply(ctx context.Context) error
}

// Compile-time interface checks
var (
	_ Step = (*AptStep)(nil)
	_ Step = (*ScriptStep)(nil)
	_ Step = (*ReposStep)(nil)
	_ Step = (*VenvStep)(nil)
)

// stepMeta carries the fields every step shares.
type stepMeta struct {
	name        string
	kind        labfile.StepKind
	description string
}

func (m stepMeta) Name() string           { return m.name }
func (m stepMeta) Kind() labfile.StepKind { return m.kind }
func (m stepMeta) Description() string    { return m.description }

func metaFor(s *labfile.Step) stepMeta {
	return stepMeta{name: s.Name, kind: s.Kind, description: s.Description}
}
