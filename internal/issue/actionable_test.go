// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "discover modules"},
			expected: "failed to discover modules",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "./aperture.cue"},
			expected: "failed to load configuration: ./aperture.cue",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "link module",
				Resource:  "/src/utils/a",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to link module: /src/utils/a: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := WrapWithContext(os.ErrNotExist, "discover modules", "/missing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if WrapWithContext(nil, "noop", "") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("unexpected token")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("aperture.cue").
		WithSuggestion("Check the CUE syntax").
		WithSuggestion("Run 'aperture config'").
		Wrap(inner).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Check the CUE syntax") {
		t.Errorf("Format(false) missing suggestion bullet:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain:\n%s", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "1. unexpected token") {
		t.Errorf("Format(true) missing error chain:\n%s", long)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return a nil error interface")
	}
}
