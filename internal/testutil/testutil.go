// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes data to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, data string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ModuleFixture describes a package.json written by WriteModule.
type ModuleFixture struct {
	Name            string            `json:"name,omitempty"`
	Version         string            `json:"version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// WriteModule creates root/rel with a package.json built from fixture and
// returns the absolute module directory.
func WriteModule(t testing.TB, root, rel string, fixture ModuleFixture) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode manifest for %s: %v", rel, err)
	}
	MustWriteFile(t, filepath.Join(dir, "package.json"), string(data))
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", dir, err)
	}
	return abs
}
