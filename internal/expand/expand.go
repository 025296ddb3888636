// SPDX-License-Identifier: MPL-2.0

// Package expand pins the configured source globs to the module directories
// they currently match.
package expand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"aperture-cli/internal/config"
	"aperture-cli/internal/modules"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/pattern"
)

// ErrNoModules is returned when there is nothing to expand. Writing an empty
// source list would reload as the default sources.
var ErrNoModules = errors.New("no modules to expand")

type (
	// Result reports the expanded sources and where they were written.
	Result struct {
		// Sources are root-relative, slash-separated module directories,
		// quoted so that each one only matches itself.
		Sources []string
		// Path is the project file that was written.
		Path string
	}

	// Expander rewrites the project configuration.
	Expander struct {
		modules modules.Provider
		logger  *log.Logger
	}
)

// New creates an Expander.
func New(provider modules.Provider, logger *log.Logger) *Expander {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Expander{modules: provider, logger: logger}
}

// Expand resolves the modules under root and writes them as explicit
// sources into the project file, keeping every other setting of cfg.
func (e *Expander) Expand(ctx context.Context, root string, cfg *config.Config) (*Result, error) {
	mods, err := e.modules.List(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoModules)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(mods))
	for _, mod := range mods {
		rel, err := filepath.Rel(absRoot, mod.Dir)
		if err != nil {
			return nil, fmt.Errorf("module %s is outside %s: %w", mod.Dir, absRoot, err)
		}
		sources = append(sources, pattern.QuoteMeta(filepath.ToSlash(rel), pattern.Filenames))
	}

	out := cfg.Clone()
	out.Sources = sources
	path, err := config.WriteProjectFile(absRoot, out)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("expanded sources", "path", path, "count", len(sources))

	return &Result{Sources: sources, Path: path}, nil
}
