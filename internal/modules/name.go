// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid module name")

// InvalidNameError is returned when a module name cannot be used as a path
// below an install or link directory.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// ValidateName accepts "name" and "@scope/name". Every segment must be a
// plain path element: not empty, not "." or "..", and free of separators.
func ValidateName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "empty"}
	}

	segments := strings.Split(name, "/")
	switch {
	case len(segments) == 2 && strings.HasPrefix(segments[0], "@"):
		if err := validateSegment(name, strings.TrimPrefix(segments[0], "@")); err != nil {
			return err
		}
		return validateSegment(name, segments[1])
	case len(segments) == 1:
		if strings.HasPrefix(name, "@") {
			return &InvalidNameError{Name: name, Reason: "scope without package name"}
		}
		return validateSegment(name, name)
	default:
		return &InvalidNameError{Name: name, Reason: "only name or @scope/name is allowed"}
	}
}

func validateSegment(name, seg string) error {
	switch {
	case seg == "":
		return &InvalidNameError{Name: name, Reason: "empty path segment"}
	case seg == "." || seg == "..":
		return &InvalidNameError{Name: name, Reason: "relative path segment"}
	case strings.ContainsAny(seg, `\:`) || strings.ContainsRune(seg, 0):
		return &InvalidNameError{Name: name, Reason: "path separator in segment"}
	}
	return nil
}

// PathUnder returns parent/name for a valid module name, and fails unless the
// cleaned result lies strictly inside parent.
func PathUnder(parent, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(parent, filepath.FromSlash(name))
	rel, err := filepath.Rel(filepath.Clean(parent), path)
	if err != nil {
		return "", &InvalidNameError{Name: name, Reason: err.Error()}
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", &InvalidNameError{Name: name, Reason: "escapes " + parent}
	}
	return path, nil
}
