// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a directory as a module.
const ManifestName = "package.json"

// ErrNoManifest is returned when a directory has no package.json.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

type (
	// Module identifies one local module. Dir is absolute and is the identity.
	Module struct {
		Name string
		Dir  string
	}

	// Manifest is the subset of package.json aperture reads.
	Manifest struct {
		Name            string            `json:"name"`
		Version         string            `json:"version,omitempty"`
		Dependencies    map[string]string `json:"dependencies,omitempty"`
		DevDependencies map[string]string `json:"devDependencies,omitempty"`
	}

	// Provider yields the ordered module set found under a root directory.
	Provider interface {
		List(ctx context.Context, root string) ([]Module, error)
	}
)

// String returns the module directory.
func (m Module) String() string { return m.Dir }

// ReadManifest loads dir/package.json.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoManifest)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// AllDependencies merges dependencies and devDependencies; regular
// dependencies win when a name appears in both.
func (m *Manifest) AllDependencies() map[string]string {
	out := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies))
	for name, rng := range m.DevDependencies {
		out[name] = rng
	}
	for name, rng := range m.Dependencies {
		out[name] = rng
	}
	return out
}

// ByName indexes mods by module name. When two modules share a name the
// first one in discovery order wins.
func ByName(mods []Module) map[string]Module {
	out := make(map[string]Module, len(mods))
	for _, m := range mods {
		if _, ok := out[m.Name]; !ok {
			out[m.Name] = m
		}
	}
	return out
}
