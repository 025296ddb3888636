// SPDX-License-Identifier: MPL-2.0

// Package install installs the external dependencies of every module.
//
// Dependencies naming another local module are dropped, since those are
// satisfied by links. The remaining ones are passed as name@range specs to
// the configured install command, run once per module that needs anything.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"aperture-cli/internal/events"
	"aperture-cli/internal/modules"
	"aperture-cli/internal/runtime"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

// ErrInstallFailed is the sentinel wrapped by FailedError.
var ErrInstallFailed = errors.New("dependency installation failed")

type (
	// Plan is the external dependency set of one module.
	Plan struct {
		Module modules.Module
		// Specs are name@range arguments, sorted by name.
		Specs []string
	}

	// Result describes a finished install.
	Result struct {
		// Installed are the modules the install command ran in.
		Installed []modules.Module
		// Skipped are the modules with no external dependencies.
		Skipped []modules.Module
	}

	// FailedError names every module whose install command failed.
	FailedError struct {
		Modules []modules.Module
	}

	// Installer runs dependency installs.
	Installer struct {
		modules modules.Provider
		runner  runtime.Runner
		logger  *log.Logger
	}
)

// Error implements the error interface.
func (e *FailedError) Error() string {
	names := make([]string, len(e.Modules))
	for i, m := range e.Modules {
		names[i] = m.Name
	}
	return fmt.Sprintf("install failed in %s", strings.Join(names, ", "))
}

// Unwrap returns ErrInstallFailed for errors.Is() compatibility.
func (e *FailedError) Unwrap() error { return ErrInstallFailed }

// New creates an Installer.
func New(provider modules.Provider, runner runtime.Runner, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installer{modules: provider, runner: runner, logger: logger}
}

// SplitCommand splits an install command line into shell words.
func SplitCommand(command string) (string, []string, error) {
	fields, err := shell.Fields(command, nil)
	if err != nil {
		return "", nil, fmt.Errorf("invalid install command %q: %w", command, err)
	}
	if len(fields) == 0 {
		return "", nil, runtime.ErrEmptyCommand
	}
	return fields[0], fields[1:], nil
}

// Install checks every module under root, emitting events.Progress after
// each one, then runs command in each module with external dependencies,
// emitting events.Spawn before each child.
func (i *Installer) Install(ctx context.Context, root, command string, bus *events.Bus) (*Result, error) {
	name, baseArgs, err := SplitCommand(command)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		bus = events.NewBus(i.logger)
	}

	mods, err := i.modules.List(ctx, root)
	if err != nil {
		return nil, err
	}

	plans, err := i.plan(mods, bus)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var failed []modules.Module
	for _, p := range plans {
		if len(p.Specs) == 0 {
			res.Skipped = append(res.Skipped, p.Module)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		args := append(slices.Clone(baseArgs), p.Specs...)
		bus.Emit(events.Spawn{Dir: p.Module.Dir, Command: name, Args: args})
		out := i.runner.Run(ctx, runtime.Spec{Dir: p.Module.Dir, Command: name, Args: args})
		if out.Failed() {
			i.logger.Warn("install failed", "module", p.Module.Name, "exit", exitCode(out))
			failed = append(failed, p.Module)
			continue
		}
		res.Installed = append(res.Installed, p.Module)
	}

	if len(failed) > 0 {
		return nil, &FailedError{Modules: failed}
	}
	return res, nil
}

// plan reads every manifest and computes the external dependency specs.
func (i *Installer) plan(mods []modules.Module, bus *events.Bus) ([]Plan, error) {
	local := modules.ByName(mods)
	plans := make([]Plan, 0, len(mods))

	if len(mods) == 0 {
		bus.Emit(events.Progress{Fraction: 1})
		return plans, nil
	}

	for n, mod := range mods {
		manifest, err := modules.ReadManifest(mod.Dir)
		if err != nil {
			return nil, err
		}

		deps := manifest.AllDependencies()
		var specs []string
		for _, dep := range slices.Sorted(maps.Keys(deps)) {
			if _, ok := local[dep]; ok {
				continue
			}
			specs = append(specs, dep+"@"+deps[dep])
		}
		plans = append(plans, Plan{Module: mod, Specs: specs})

		bus.Emit(events.Progress{Fraction: float64(n+1) / float64(len(mods))})
	}

	return plans, nil
}

func exitCode(res *runtime.Result) runtime.ExitCode {
	if res == nil {
		return 1
	}
	return res.ExitCode
}
