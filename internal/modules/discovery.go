// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/pattern"
)

// DefaultMaxDepth bounds how deep "**" sources descend below the root.
const DefaultMaxDepth = 4

var (
	// ErrInvalidSource is the sentinel error wrapped by InvalidSourceError.
	ErrInvalidSource = errors.New("invalid module source")

	// DefaultSources matches every module below the root.
	DefaultSources = []string{"**"}

	// DefaultIgnore lists directory names discovery never enters.
	DefaultIgnore = []string{"node_modules", ".git"}
)

type (
	// Options configure a Discovery.
	Options struct {
		// Sources are shell globs relative to the root, "/"-separated.
		Sources []string
		// Ignore lists directory base names that are never descended into.
		Ignore []string
		// MaxDepth limits the directory depth below the root; zero means DefaultMaxDepth.
		MaxDepth int
	}

	// Discovery implements Provider by walking the filesystem.
	Discovery struct {
		opts   Options
		logger *log.Logger
	}

	// InvalidSourceError is returned when a source glob cannot be compiled.
	InvalidSourceError struct {
		Source string
		Err    error
	}

	// DiscoveryError is returned when the module tree cannot be enumerated.
	DiscoveryError struct {
		Root string
		Err  error
	}

	compiledSource struct {
		raw string
		re  *regexp.Regexp
	}
)

// Error implements the error interface.
func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid module source %q: %v", e.Source, e.Err)
}

// Unwrap returns ErrInvalidSource for errors.Is() compatibility.
func (e *InvalidSourceError) Unwrap() error { return ErrInvalidSource }

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to discover modules in %s: %v", e.Root, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DiscoveryError) Unwrap() error { return e.Err }

// New creates a Discovery. Empty options fall back to the defaults.
func New(opts Options, logger *log.Logger) *Discovery {
	if len(opts.Sources) == 0 {
		opts.Sources = DefaultSources
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Discovery{opts: opts, logger: logger}
}

// List walks root and returns every module whose relative path matches a
// source, ordered by source then by path.
func (d *Discovery) List(ctx context.Context, root string) ([]Module, error) {
	sources, err := compileSources(d.opts.Sources)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &DiscoveryError{Root: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Root: absRoot, Err: fmt.Errorf("not a directory")}
	}

	buckets := make([][]Module, len(sources))
	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() || path == absRoot {
			return nil
		}
		if slices.Contains(d.opts.Ignore, entry.Name()) {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if depth(rel) > d.opts.MaxDepth {
			return filepath.SkipDir
		}

		idx := matchSource(sources, rel)
		if idx < 0 {
			return nil
		}
		mod, ok, err := d.moduleAt(path)
		if err != nil {
			return err
		}
		if ok {
			buckets[idx] = append(buckets[idx], mod)
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, &DiscoveryError{Root: absRoot, Err: walkErr}
	}

	var mods []Module
	for _, bucket := range buckets {
		mods = append(mods, bucket...)
	}
	d.logger.Debug("discovered modules", "root", absRoot, "count", len(mods))
	return mods, nil
}

// moduleAt reports whether dir is a module and, if so, describes it.
func (d *Discovery) moduleAt(dir string) (Module, bool, error) {
	manifest, err := ReadManifest(dir)
	if errors.Is(err, ErrNoManifest) {
		return Module{}, false, nil
	}
	if err != nil {
		return Module{}, false, err
	}

	name := manifest.Name
	if name == "" {
		name = filepath.Base(dir)
		d.logger.Debug("manifest has no name, using directory name", "dir", dir, "name", name)
	}
	return Module{Name: name, Dir: dir}, true, nil
}

func compileSources(raw []string) ([]compiledSource, error) {
	out := make([]compiledSource, 0, len(raw))
	for _, src := range raw {
		expr, err := pattern.Regexp(src, pattern.Filenames)
		if err != nil {
			return nil, &InvalidSourceError{Source: src, Err: err}
		}
		re, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, &InvalidSourceError{Source: src, Err: err}
		}
		out = append(out, compiledSource{raw: src, re: re})
	}
	return out, nil
}

func matchSource(sources []compiledSource, rel string) int {
	for i, src := range sources {
		if src.re.MatchString(rel) {
			return i
		}
	}
	return -1
}

func depth(rel string) int {
	n := 1
	for _, r := range rel {
		if r == '/' {
			n++
		}
	}
	return n
}
