// SPDX-License-Identifier: MPL-2.0

package sif

import (
	"errors"
	"fmt"
)

const (
	// StrategyStandard is a plain `build` with no permission workarounds.
	StrategyStandard BuildStrategy = "standard"
	// StrategyFixPerms adds --fix-perms, forcing owner rwX on files whose
	// image permissions would be unreadable for an unprivileged build.
	StrategyFixPerms BuildStrategy = "fix-perms"
	// StrategyFakeroot adds --fakeroot, running the build in a user
	// namespace that maps the invoking user to root.
	StrategyFakeroot BuildStrategy = "fakeroot"
)

// ErrInvalidBuildStrategy is the sentinel error wrapped by InvalidBuildStrategyError.
var ErrInvalidBuildStrategy = errors.New("invalid build strategy")

type (
	// BuildStrategy selects the permission workaround for one build attempt.
	BuildStrategy string

	// InvalidBuildStrategyError is returned when a BuildStrategy has an invalid value.
	InvalidBuildStrategyError struct {
		Value BuildStrategy
	}
)

// Error implements the error interface for InvalidBuildStrategyError.
func (e *InvalidBuildStrategyError) Error() string {
	return fmt.Sprintf("invalid build strategy %q (must be one of: standard, fix-perms, fakeroot)", string(e.Value))
}

// Unwrap returns ErrInvalidBuildStrategy for errors.Is() compatibility.
func (e *InvalidBuildStrategyError) Unwrap() error { return ErrInvalidBuildStrategy }

// String returns the string representation of the BuildStrategy.
func (s BuildStrategy) String() string { return string(s) }

// IsValid returns whether the BuildStrategy is valid.
func (s BuildStrategy) IsValid() (bool, []error) {
	switch s {
	case StrategyStandard, StrategyFixPerms, StrategyFakeroot:
		return true, nil
	default:
		return false, []error{&InvalidBuildStrategyError{Value: s}}
	}
}

// Flags returns the extra `build` arguments the strategy adds.
func (s BuildStrategy) Flags() []string {
	switch s {
	case StrategyFixPerms:
		return []string{"--fix-perms"}
	case StrategyFakeroot:
		return []string{"--fakeroot"}
	default:
		return nil
	}
}

// Strategies returns the build ladder in escalation order. Callers attempt
// each in turn until one produces an image on disk.
func Strategies() []BuildStrategy {
	return []BuildStrategy{StrategyStandard, StrategyFixPerms, StrategyFakeroot}
}
