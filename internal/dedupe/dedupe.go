// SPDX-License-Identifier: MPL-2.0

// Package dedupe removes installed copies of local modules that shadow the
// linked originals.
//
// A module that depends on a sibling often ends up with its own copy under
// <module>/node_modules/<sibling>, which then wins over the link. Every such
// copy is announced with events.Queued and removed.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"aperture-cli/internal/events"
	"aperture-cli/internal/modules"

	"github.com/charmbracelet/log"
)

// InstallDir is the directory inside a module holding installed packages.
const InstallDir = "node_modules"

type (
	// Result lists the removed copies in removal order.
	Result struct {
		Removed []string
	}

	// Deduper removes shadowing copies.
	Deduper struct {
		modules modules.Provider
		logger  *log.Logger
	}
)

// New creates a Deduper.
func New(provider modules.Provider, logger *log.Logger) *Deduper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Deduper{modules: provider, logger: logger}
}

// Dedupe removes, for every module under root, each installed copy of
// another local module.
func (d *Deduper) Dedupe(ctx context.Context, root string, bus *events.Bus) (*Result, error) {
	mods, err := d.modules.List(ctx, root)
	if err != nil {
		return nil, err
	}

	for _, mod := range mods {
		if err := modules.ValidateName(mod.Name); err != nil {
			return nil, fmt.Errorf("dedupe %s: %w", mod.Dir, err)
		}
	}

	res := &Result{}
	for _, mod := range mods {
		for _, local := range mods {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			path, err := modules.PathUnder(filepath.Join(mod.Dir, InstallDir), local.Name)
			if err != nil {
				return nil, fmt.Errorf("dedupe %s: %w", local.Dir, err)
			}
			if _, err := os.Lstat(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("inspect %s: %w", path, err)
			}

			if bus != nil {
				bus.Emit(events.Queued{Path: path})
			}
			if err := os.RemoveAll(path); err != nil {
				return nil, fmt.Errorf("remove duplicate %s: %w", path, err)
			}
			d.logger.Debug("removed duplicate", "module", mod.Name, "copy", local.Name)
			res.Removed = append(res.Removed, path)
		}
	}

	return res, nil
}
