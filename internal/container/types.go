// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidContainerName is the sentinel error wrapped by InvalidContainerNameError.
	ErrInvalidContainerName = errors.New("invalid container name")

	// ErrInvalidImageTag is the sentinel error wrapped by InvalidImageTagError.
	ErrInvalidImageTag = errors.New("invalid image tag")
)

// containerNamePattern matches names Docker itself accepts.
var containerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

type (
	// ContainerName identifies an existing container by name or ID.
	ContainerName string

	// InvalidContainerNameError is returned when a ContainerName is empty or
	// contains characters Docker rejects.
	InvalidContainerNameError struct {
		Value ContainerName
	}

	// ImageTag is an image reference, optionally including a tag
	// (e.g. "robot_lab_img" or "robot_lab_img:latest").
	ImageTag string

	// InvalidImageTagError is returned when an ImageTag is empty or malformed.
	InvalidImageTagError struct {
		Value ImageTag
	}
)

// Error implements the error interface.
func (e *InvalidContainerNameError) Error() string {
	return fmt.Sprintf("invalid container name %q (must match %s)", string(e.Value), containerNamePattern)
}

// Unwrap returns ErrInvalidContainerName so callers can use errors.Is for programmatic detection.
func (e *InvalidContainerNameError) Unwrap() error { return ErrInvalidContainerName }

// Validate returns an error if the ContainerName is not a name Docker accepts.
func (n ContainerName) Validate() error {
	if !containerNamePattern.MatchString(string(n)) {
		return &InvalidContainerNameError{Value: n}
	}
	return nil
}

// String returns the name as a plain string.
func (n ContainerName) String() string { return string(n) }

// Error implements the error interface.
func (e *InvalidImageTagError) Error() string {
	return fmt.Sprintf("invalid image tag %q (must be non-empty, without whitespace)", string(e.Value))
}

// Unwrap returns ErrInvalidImageTag so callers can use errors.Is for programmatic detection.
func (e *InvalidImageTagError) Unwrap() error { return ErrInvalidImageTag }

// Validate returns an error if the ImageTag is empty or contains whitespace.
func (t ImageTag) Validate() error {
	s := string(t)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return &InvalidImageTagError{Value: t}
	}
	return nil
}

// String returns the tag as a plain string.
func (t ImageTag) String() string { return string(t) }

// WithDefaultTag returns the reference with ":latest" appended when no tag
// is present. skopeo's docker-daemon transport requires an explicit tag even
// though the docker CLI defaults it.
func (t ImageTag) WithDefaultTag() ImageTag {
	s := string(t)
	// A colon after the last slash is a tag separator; earlier colons
	// belong to a registry host:port.
	lastColon := strings.LastIndex(s, ":")
	if lastColon > strings.LastIndex(s, "/") {
		return t
	}
	return ImageTag(s + ":latest")
}

// Base returns the final name component without registry path or tag, used
// to derive artifact filenames (<base>.tar, <base>.def, <base>.sif).
func (t ImageTag) Base() string {
	s := string(t)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}
