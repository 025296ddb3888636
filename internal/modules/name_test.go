// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"left-pad", false},
		{"@acme/widgets", false},
		{"a.b", false},
		{"", true},
		{".", true},
		{"..", true},
		{"../x", true},
		{"x/..", true},
		{"/etc", true},
		{"a/b", true},
		{"@acme", true},
		{"@acme/", true},
		{"@/x", true},
		{"@acme/..", true},
		{"@acme/b/c", true},
		{`..\x`, true},
		{"c:x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.name, err)
				}
				var nameErr *InvalidNameError
				if !errors.As(err, &nameErr) || nameErr.Name != tt.name {
					t.Errorf("ValidateName(%q) = %v, want *InvalidNameError", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
			}
		})
	}
}

func TestPathUnder(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "node_modules")

	got, err := PathUnder(parent, "@acme/b")
	if err != nil {
		t.Fatalf("PathUnder() error = %v", err)
	}
	if want := filepath.Join(parent, "@acme", "b"); got != want {
		t.Errorf("PathUnder() = %q, want %q", got, want)
	}

	if _, err := PathUnder(parent, ".."); !errors.Is(err, ErrInvalidName) {
		t.Errorf("PathUnder(..) error = %v, want ErrInvalidName", err)
	}
}
