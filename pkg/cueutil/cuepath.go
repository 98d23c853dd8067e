// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by InvalidCUEPathError.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a JSON-path-style reference into a CUE document
	// (e.g., "steps[0].name"). It is used when reporting which field of a
	// manifest or config file failed validation.
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath is empty or blank.
	InvalidCUEPathError struct {
		Value CUEPath
	}
)

// Error implements the error interface.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q (must be non-empty)", string(e.Value))
}

// Unwrap returns ErrInvalidCUEPath so callers can use errors.Is for programmatic detection.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// Validate returns an error if the CUEPath is empty or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// String returns the path as a plain string.
func (p CUEPath) String() string { return string(p) }
