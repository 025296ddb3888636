// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"fmt"
	"io"

	"aperture-cli/internal/config"
	"aperture-cli/internal/events"
	"aperture-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

const (
	// OutcomeUsage means no command ran and usage should be shown.
	OutcomeUsage Outcome = iota + 1
	// OutcomeVersion means the version was requested.
	OutcomeVersion
	// OutcomeRan means a handler ran to completion.
	OutcomeRan
)

type (
	// Outcome classifies what a dispatch did.
	Outcome int

	// Invocation is a parsed command line.
	Invocation struct {
		// Name is the first positional argument, possibly an alias or empty.
		Name string
		// Args are the positional arguments after Name.
		Args []string
		// Root is the absolute working-tree root.
		Root string
		// Bail overrides the configured bail policy when non-nil.
		Bail *bool
		// Version is set by -v/--version.
		Version bool
	}

	// Report describes a finished dispatch.
	Report struct {
		Outcome Outcome
		// Command is the canonical name of the command that ran.
		Command string
		// Unknown holds the unrecognized name behind a usage outcome.
		Unknown string
		// Result is the handler's completion value.
		Result Result
		// ExitCode is the code the process should exit with.
		ExitCode runtime.ExitCode
	}

	// CommandError wraps a handler failure with the command that produced it.
	CommandError struct {
		Command string
		Err     error
	}

	// ConfigLoader produces the base configuration. It is only called once a
	// command has resolved, so version and usage requests never read files.
	ConfigLoader func(ctx context.Context) (*config.Config, error)

	// Dispatcher runs invocations against a registry.
	Dispatcher struct {
		registry *Registry
		logger   *log.Logger
	}
)

// String returns a readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUsage:
		return "usage"
	case OutcomeVersion:
		return "version"
	case OutcomeRan:
		return "ran"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the handler error.
func (e *CommandError) Unwrap() error { return e.Err }

// New creates a Dispatcher.
func New(registry *Registry, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the dispatcher's command table.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Static returns a ConfigLoader that always yields cfg.
func Static(cfg *config.Config) ConfigLoader {
	return func(context.Context) (*config.Config, error) { return cfg, nil }
}

// Dispatch resolves inv and runs its handler with a private copy of the
// loaded configuration; a nil load uses the defaults. A handler error is
// returned as a *CommandError and is fatal to the caller; the presenter's
// Report is only called after a successful run.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation, load ConfigLoader) (*Report, error) {
	if inv.Version || inv.Name == VersionCommand {
		return &Report{Outcome: OutcomeVersion}, nil
	}
	if inv.Name == "" {
		return &Report{Outcome: OutcomeUsage}, nil
	}

	cmd, ok := d.registry.Resolve(inv.Name)
	if !ok {
		d.logger.Debug("unknown command", "name", inv.Name)
		return &Report{Outcome: OutcomeUsage, Unknown: inv.Name}, nil
	}

	var base *config.Config
	if load != nil {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	cfg := d.configure(cmd, inv, base)

	bus := events.NewBus(d.logger)
	var presenter Presenter
	if cmd.Present != nil {
		presenter = cmd.Present()
	}
	if presenter != nil {
		presenter.Attach(bus)
	}

	d.logger.Debug("dispatching", "command", cmd.Name, "alias", inv.Name, "root", inv.Root)
	res, err := cmd.Handler.Run(ctx, Request{Root: inv.Root, Config: cfg, Bus: bus})
	if err != nil {
		return nil, &CommandError{Command: cmd.Name, Err: err}
	}

	if presenter != nil {
		presenter.Report(res)
	}

	report := &Report{Outcome: OutcomeRan, Command: cmd.Name, Result: res}
	if ec, ok := res.(ExitCoder); ok {
		report.ExitCode = ec.ExitCode()
	}
	return report, nil
}

func (d *Dispatcher) configure(cmd Command, inv Invocation, base *config.Config) *config.Config {
	if base == nil {
		base = config.DefaultConfig()
	}
	cfg := base.Clone()
	if inv.Bail != nil {
		cfg.Bail = *inv.Bail
	}
	if cmd.Configure != nil {
		cmd.Configure(cfg, inv)
	}
	return cfg
}

// ConfigureBulk copies the invocation's positional arguments into the bulk
// command: the first names the program and the rest are its arguments.
func ConfigureBulk(cfg *config.Config, inv Invocation) {
	cfg.Bulk = config.BulkConfig{}
	if len(inv.Args) == 0 {
		return
	}
	cfg.Bulk.Command = inv.Args[0]
	cfg.Bulk.Args = append([]string(nil), inv.Args[1:]...)
}
