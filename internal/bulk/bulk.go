// SPDX-License-Identifier: MPL-2.0

package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"aperture-cli/internal/config"
	"aperture-cli/internal/events"
	"aperture-cli/internal/modules"
	"aperture-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

// ErrMissingCommand is returned when no command was supplied to run.
var ErrMissingCommand = errors.New("you must supply a command to run in bulk")

type (
	// Options select the command and failure policy of one run.
	Options struct {
		Command string
		Args    []string
		Bail    bool
	}

	// Result classifies every discovered module. Succeeded and Failed hold
	// the attempted modules in the order they ran; Skipped holds the modules
	// left unattempted after a bail.
	Result struct {
		Succeeded []modules.Module
		Failed    []modules.Module
		Skipped   []modules.Module
		// Errors holds, by module directory, why a failed child never ran.
		Errors map[string]error
	}

	// Engine executes bulk runs.
	Engine struct {
		modules modules.Provider
		runner  runtime.Runner
		logger  *log.Logger
	}
)

// OptionsFromConfig reads the bulk command and bail policy from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Command: cfg.Bulk.Command,
		Args:    cfg.Bulk.Args,
		Bail:    cfg.Bail,
	}
}

// Validate reports whether the options name a command.
func (o Options) Validate() error {
	if o.Command == "" {
		return ErrMissingCommand
	}
	return nil
}

// New creates an Engine.
func New(provider modules.Provider, runner runtime.Runner, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{modules: provider, runner: runner, logger: logger}
}

// Run executes opts in every module found under root, emitting a Spawn on
// bus before each child starts. Validation happens before discovery, so an
// invalid request neither lists modules nor spawns anything.
func (e *Engine) Run(ctx context.Context, root string, opts Options, bus *events.Bus) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if bus == nil {
		bus = events.NewBus(e.logger)
	}

	mods, err := e.modules.List(ctx, root)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, mod := range mods {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("bulk run interrupted before %s: %w", mod.Dir, err)
		}

		bus.Emit(events.Spawn{Dir: mod.Dir, Command: opts.Command, Args: opts.Args})
		out := e.runner.Run(ctx, runtime.Spec{Dir: mod.Dir, Command: opts.Command, Args: opts.Args})

		if !out.Failed() {
			res.Succeeded = append(res.Succeeded, mod)
			continue
		}

		res.Failed = append(res.Failed, mod)
		if out != nil && out.Error != nil {
			if res.Errors == nil {
				res.Errors = make(map[string]error)
			}
			res.Errors[mod.Dir] = out.Error
		}
		e.logFailure(mod, out)
		if opts.Bail {
			res.Skipped = append(res.Skipped, mods[i+1:]...)
			e.logger.Debug("bailing after first failure", "module", mod.Name, "skipped", len(res.Skipped))
			break
		}
	}

	e.logger.Debug("bulk run finished",
		"succeeded", len(res.Succeeded), "failed", len(res.Failed), "skipped", len(res.Skipped))
	return res, nil
}

func (e *Engine) logFailure(mod modules.Module, out *runtime.Result) {
	if out == nil {
		e.logger.Warn("module command returned no result", "module", mod.Name, "dir", mod.Dir)
		return
	}
	if out.Error != nil {
		e.logger.Warn("module command could not start", "module", mod.Name, "dir", mod.Dir, "err", out.Error)
		return
	}
	e.logger.Debug("module command failed", "module", mod.Name, "dir", mod.Dir, "exit", out.ExitCode)
}

// ExitCode is 1 when any module failed and 0 otherwise.
func (r *Result) ExitCode() runtime.ExitCode {
	if len(r.Failed) > 0 {
		return 1
	}
	return 0
}

// Attempted returns the number of modules whose command was started.
func (r *Result) Attempted() int {
	return len(r.Succeeded) + len(r.Failed)
}
