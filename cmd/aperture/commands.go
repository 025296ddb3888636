// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"aperture-cli/internal/bootstrap"
	"aperture-cli/internal/bulk"
	"aperture-cli/internal/dedupe"
	"aperture-cli/internal/dispatch"
	"aperture-cli/internal/events"
	"aperture-cli/internal/expand"
	"aperture-cli/internal/install"
	"aperture-cli/internal/link"
)

// commands is the alias table. Order is the order shown in usage output.
func (a *App) commands() []dispatch.Command {
	return []dispatch.Command{
		{
			Name:    "link",
			Aliases: []string{"ln"},
			Summary: "Symlink every module into the link directory",
			Handler: dispatch.HandlerFunc(a.runLink),
			Present: func() dispatch.Presenter { return &pathPresenter{w: a.stdout, kind: events.KindLink} },
		},
		{
			Name:    "dedupe",
			Aliases: []string{"purge"},
			Summary: "Remove installed copies of local modules",
			Handler: dispatch.HandlerFunc(a.runDedupe),
			Present: func() dispatch.Presenter { return &pathPresenter{w: a.stdout, kind: events.KindQueued} },
		},
		{
			Name:    "install",
			Aliases: []string{"isntall"},
			Summary: "Install the external dependencies of every module",
			Handler: dispatch.HandlerFunc(a.runInstall),
			Present: func() dispatch.Presenter { return &installPresenter{w: a.stdout} },
		},
		{
			Name:      "bulk",
			Aliases:   []string{"each"},
			Summary:   "Run a command in every module",
			Handler:   dispatch.HandlerFunc(a.runBulk),
			Present:   func() dispatch.Presenter { return &bulkPresenter{w: a.stdout} },
			Configure: dispatch.ConfigureBulk,
		},
		{
			Name:    "open",
			Aliases: []string{"init"},
			Summary: "Link, dedupe and install in one go",
			Handler: dispatch.HandlerFunc(a.runOpen),
			Present: func() dispatch.Presenter { return &openPresenter{w: a.stdout} },
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Summary: "Print the directory of every module",
			Handler: dispatch.HandlerFunc(a.runList),
			Present: func() dispatch.Presenter { return &resultPresenter{w: a.stdout} },
		},
		{
			Name:    "expand",
			Summary: "Write the matched module directories back as sources",
			Handler: dispatch.HandlerFunc(a.runExpand),
			Present: func() dispatch.Presenter { return &resultPresenter{w: a.stdout} },
		},
		{
			Name:    "config",
			Summary: "Print the effective configuration",
			Handler: dispatch.HandlerFunc(a.runConfig),
			Present: func() dispatch.Presenter { return &resultPresenter{w: a.stdout} },
		},
	}
}

func (a *App) runLink(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	return link.New(provider, a.logger).Link(ctx, req.Root, req.Config.LinkDir, req.Bus)
}

func (a *App) runDedupe(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	return dedupe.New(provider, a.logger).Dedupe(ctx, req.Root, req.Bus)
}

func (a *App) runInstall(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	return install.New(provider, a.Runner, a.logger).Install(ctx, req.Root, req.Config.Install.Command, req.Bus)
}

func (a *App) runBulk(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	return bulk.New(provider, a.Runner, a.logger).Run(ctx, req.Root, bulk.OptionsFromConfig(req.Config), req.Bus)
}

func (a *App) runOpen(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	b := bootstrap.New(
		link.New(provider, a.logger),
		dedupe.New(provider, a.logger),
		install.New(provider, a.Runner, a.logger),
		a.logger,
	)
	return b.Open(ctx, req.Root, req.Config, req.Bus)
}

func (a *App) runList(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	return a.Modules(req.Config, a.logger).List(ctx, req.Root)
}

func (a *App) runExpand(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	provider := a.Modules(req.Config, a.logger)
	return expand.New(provider, a.logger).Expand(ctx, req.Root, req.Config)
}

func (a *App) runConfig(_ context.Context, req dispatch.Request) (dispatch.Result, error) {
	return req.Config, nil
}
