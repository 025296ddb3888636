// SPDX-License-Identifier: MPL-2.0

// Package link makes every module of a working tree importable by name by
// symlinking it into the tree's link directory.
package link

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

// ErrSelfLink is returned when a module's link path is the module itself.
var ErrSelfLink = errors.New("module would be linked onto itself")

type (
	// Result lists the modules linked, in discovery order.
	Result struct {
		Root    string
		LinkDir string
		Linked  []modules.Module
	}

	// Linker creates module links.
	Linker struct {
		modules modules.Provider
		logger  *log.Logger
	}

	// Error reports the module whose link could not be created.
	Error struct {
		Module modules.Module
		Path   string
		Err    error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("link %s -> %s: %v", e.Path, e.Module.Dir, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// New creates a Linker.
func New(provider modules.Provider, logger *log.Logger) *Linker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Linker{modules: provider, logger: logger}
}

// Path returns where mod is linked under root. Scoped names such as
// "@scope/pkg" keep their scope directory. Names that are not "name" or
// "@scope/name" fail with modules.ErrInvalidName.
func Path(root, linkDir string, mod modules.Module) (string, error) {
	return modules.PathUnder(filepath.Join(root, linkDir), mod.Name)
}

// Link symlinks every module under root into root/linkDir, replacing
// whatever occupied the link path, and emits events.Link with the module
// directory after each link is in place.
func (l *Linker) Link(ctx context.Context, root, linkDir string, bus *events.Bus) (*Result, error) {
	mods, err := l.modules.List(ctx, root)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(mods))
	for i, mod := range mods {
		path, err := Path(root, linkDir, mod)
		if err != nil {
			return nil, &Error{Module: mod, Path: filepath.Join(root, linkDir), Err: err}
		}
		paths[i] = path
	}

	res := &Result{Root: root, LinkDir: filepath.Join(root, linkDir)}
	for i, mod := range mods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := paths[i]
		if err := l.linkOne(mod, path); err != nil {
			return nil, &Error{Module: mod, Path: path, Err: err}
		}
		l.logger.Debug("linked module", "module", mod.Name, "path", path)

		res.Linked = append(res.Linked, mod)
		if bus != nil {
			bus.Emit(events.Link{Path: mod.Dir})
		}
	}

	return res, nil
}

func (l *Linker) linkOne(mod modules.Module, path string) error {
	if filepath.Clean(path) == filepath.Clean(mod.Dir) {
		return ErrSelfLink
	}

	// Replace stale links and copies left by a previous install.
	if _, err := os.Lstat(path); err == nil {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove existing entry: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	target := mod.Dir
	if rel, err := filepath.Rel(filepath.Dir(path), mod.Dir); err == nil {
		target = rel
	}
	return os.Symlink(target, path)
}
