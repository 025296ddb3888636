// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"aperture-cli/internal/config"
	"aperture-cli/internal/dispatch"
	"aperture-cli/internal/modules"
	"aperture-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: the Cobra handler builds an Invocation and
	// delegates everything else to the App's dispatcher.
	App struct {
		Config     ConfigProvider
		Runner     runtime.Runner
		Modules    ModuleProviderFactory
		dispatcher *dispatch.Dispatcher
		logger     *log.Logger
		stdout     io.Writer
		stderr     io.Writer
		// markdownStyle overrides the glamour style used for usage and issue
		// text. Empty selects one per output stream.
		markdownStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config        ConfigProvider
		Runner        runtime.Runner
		Modules       ModuleProviderFactory
		Logger        *log.Logger
		Stdout        io.Writer
		Stderr        io.Writer
		MarkdownStyle string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ModuleProviderFactory builds the module set provider for one invocation's
	// configuration.
	ModuleProviderFactory func(cfg *config.Config, logger *log.Logger) modules.Provider
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = &runtime.NativeRuntime{Stdin: os.Stdin, Stdout: deps.Stdout, Stderr: deps.Stderr}
	}
	if deps.Modules == nil {
		deps.Modules = discoveryFromConfig
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: config.AppName,
			Level:  log.WarnLevel,
		})
	}
	app := &App{
		Config:        deps.Config,
		Runner:        deps.Runner,
		Modules:       deps.Modules,
		logger:        deps.Logger,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
		markdownStyle: deps.MarkdownStyle,
	}

	registry, err := dispatch.NewRegistry(app.commands()...)
	if err != nil {
		return nil, err
	}
	app.dispatcher = dispatch.New(registry, deps.Logger)

	return app, nil
}

// discoveryFromConfig is the production ModuleProviderFactory.
func discoveryFromConfig(cfg *config.Config, logger *log.Logger) modules.Provider {
	return modules.New(modules.Options{
		Sources:  cfg.Sources,
		Ignore:   cfg.Ignore,
		MaxDepth: cfg.MaxDepth,
	}, logger)
}

// SetVerbose switches the logger to debug output.
func (a *App) SetVerbose(verbose bool) {
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
}

// configLoader defers loading until the dispatcher has resolved a command,
// then applies ui.verbose from the loaded file.
func (a *App) configLoader(configPath, root string) dispatch.ConfigLoader {
	return func(ctx context.Context) (*config.Config, error) {
		cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath, BaseDir: root})
		if err != nil {
			return nil, err
		}
		a.SetVerbose(cfg.UI.Verbose)
		return cfg, nil
	}
}
