// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"aperture-cli/internal/config"
	"aperture-cli/internal/events"
	"aperture-cli/internal/runtime"
)

// VersionCommand is handled by the dispatcher itself and cannot be registered.
const VersionCommand = "version"

var (
	// ErrDuplicateName is returned when two commands claim the same name or alias.
	ErrDuplicateName = errors.New("duplicate command name")
	// ErrReservedName is returned when a command tries to register a reserved name.
	ErrReservedName = errors.New("reserved command name")
	// ErrNoHandler is returned when a command is registered without a handler.
	ErrNoHandler = errors.New("command has no handler")
)

type (
	// Request is what every handler receives.
	Request struct {
		// Root is the absolute working-tree root.
		Root string
		// Config is this invocation's private copy; handlers must not modify it.
		Config *config.Config
		// Bus is the invocation's event bus with the presenter already attached.
		Bus *events.Bus
	}

	// Result is a handler's completion value. Its concrete type is known to
	// the command's Presenter.
	Result any

	// ExitCoder is implemented by results that decide the process exit code.
	ExitCoder interface {
		ExitCode() runtime.ExitCode
	}

	// Handler runs one subsystem.
	Handler interface {
		Run(ctx context.Context, req Request) (Result, error)
	}

	// HandlerFunc adapts a function to Handler.
	HandlerFunc func(ctx context.Context, req Request) (Result, error)

	// Presenter renders one command's events and final result.
	Presenter interface {
		// Attach subscribes to the events the command renders.
		Attach(bus *events.Bus)
		// Report renders the handler's result after a successful run.
		Report(res Result)
	}

	// Command describes one dispatchable command.
	Command struct {
		// Name is the canonical name.
		Name string
		// Aliases are alternative spellings resolving to Name.
		Aliases []string
		// Summary is a one-line description for usage output.
		Summary string
		// Handler performs the work.
		Handler Handler
		// Present creates a presenter for one invocation; nil means the
		// command renders nothing.
		Present func() Presenter
		// Configure applies invocation-specific settings to the cloned
		// configuration before the handler runs.
		Configure func(cfg *config.Config, inv Invocation)
	}

	// Registry is an immutable lookup table of commands.
	Registry struct {
		commands []Command
		byName   map[string]int
	}

	// DuplicateNameError names the command spelling registered twice.
	DuplicateNameError struct {
		Name     string
		Existing string
	}
)

// Run implements Handler.
func (f HandlerFunc) Run(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("command name %q is already used by %q", e.Name, e.Existing)
}

// Unwrap returns ErrDuplicateName for errors.Is() compatibility.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NewRegistry builds a registry from commands, preserving their order.
func NewRegistry(commands ...Command) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}

	for _, cmd := range commands {
		if cmd.Handler == nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, ErrNoHandler)
		}
		cmd.Aliases = slices.Clone(cmd.Aliases)
		idx := len(r.commands)
		for _, name := range cmd.Names() {
			if name == VersionCommand {
				return nil, fmt.Errorf("%s: %w", name, ErrReservedName)
			}
			if prev, ok := r.byName[name]; ok {
				return nil, &DuplicateNameError{Name: name, Existing: r.commands[prev].Name}
			}
			r.byName[name] = idx
		}
		r.commands = append(r.commands, cmd)
	}

	return r, nil
}

// MustRegistry is NewRegistry for static command tables.
func MustRegistry(commands ...Command) *Registry {
	r, err := NewRegistry(commands...)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the canonical name followed by the aliases.
func (c Command) Names() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// Resolve looks up a canonical name or alias.
func (r *Registry) Resolve(name string) (Command, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Command{}, false
	}
	return r.commands[idx], true
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	return slices.Clone(r.commands)
}
