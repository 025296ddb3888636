// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"aperture-cli/internal/bootstrap"
	"aperture-cli/internal/bulk"
	"aperture-cli/internal/config"
	"aperture-cli/internal/dispatch"
	"aperture-cli/internal/events"
	"aperture-cli/internal/expand"
	"aperture-cli/internal/install"
	"aperture-cli/internal/modules"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// openPresenter prints every step of the open sequence behind an
	// "aperture" prefix.
	openPresenter struct {
		w io.Writer
	}

	// installPresenter prints a percentage while manifests are checked and a
	// line per install command.
	installPresenter struct {
		w io.Writer
	}

	// pathPresenter prints the path carried by one event kind, one per line.
	pathPresenter struct {
		w    io.Writer
		kind events.Kind
	}

	// bulkPresenter prints a line per spawned command and a summary.
	bulkPresenter struct {
		w io.Writer
	}

	// resultPresenter prints only the final result.
	resultPresenter struct {
		w io.Writer
	}
)

var (
	_ dispatch.Presenter = (*openPresenter)(nil)
	_ dispatch.Presenter = (*installPresenter)(nil)
	_ dispatch.Presenter = (*pathPresenter)(nil)
	_ dispatch.Presenter = (*bulkPresenter)(nil)
	_ dispatch.Presenter = (*resultPresenter)(nil)
)

func (p *openPresenter) Attach(bus *events.Bus) {
	prefix := prefixStyle.Render("aperture")

	events.On(bus, func(ev events.Link) {
		fmt.Fprintln(p.w, prefix, actionStyle.Render("linking module"), ev.Path)
	})
	events.On(bus, func(ev events.Queued) {
		fmt.Fprintln(p.w, prefix, actionStyle.Render("removing duplicate"), ev.Path)
	})
	events.On(bus, func(ev events.Spawn) {
		fmt.Fprintln(p.w, prefix, formatSpawn(ev))
	})
	events.Once(bus, func(events.Progress) {
		fmt.Fprintln(p.w, actionStyle.Render("checking registry"))
	})
	events.On(bus, func(ev events.Progress) {
		fmt.Fprintf(p.w, "%s %d%%      \r", SuccessStyle.Render("progress:"), ev.Percent())
	})
}

func (p *openPresenter) Report(res dispatch.Result) {
	r, ok := res.(*bootstrap.Result)
	if !ok {
		return
	}
	fmt.Fprintf(p.w, "%s linked %d, removed %d duplicate(s), installed %d\n",
		SuccessStyle.Render("✓"), len(r.Link.Linked), len(r.Dedupe.Removed), len(r.Install.Installed))
}

func (p *installPresenter) Attach(bus *events.Bus) {
	fmt.Fprintln(p.w, "checking package versions...")

	events.On(bus, func(ev events.Progress) {
		fmt.Fprintf(p.w, "%d%%    \r", ev.Percent())
	})
	events.On(bus, func(ev events.Spawn) {
		fmt.Fprintln(p.w, formatSpawn(ev))
	})
}

func (p *installPresenter) Report(res dispatch.Result) {
	r, ok := res.(*install.Result)
	if !ok {
		return
	}
	fmt.Fprintf(p.w, "%s installed dependencies in %d module(s), %d had nothing to install\n",
		SuccessStyle.Render("✓"), len(r.Installed), len(r.Skipped))
}

func (p *pathPresenter) Attach(bus *events.Bus) {
	bus.Subscribe(p.kind, func(ev events.Event) {
		switch ev := ev.(type) {
		case events.Link:
			fmt.Fprintln(p.w, ev.Path)
		case events.Queued:
			fmt.Fprintln(p.w, ev.Path)
		}
	})
}

// Report prints nothing: every path was already printed as it happened.
func (p *pathPresenter) Report(dispatch.Result) {}

func (p *bulkPresenter) Attach(bus *events.Bus) {
	events.On(bus, func(ev events.Spawn) {
		fmt.Fprintln(p.w, formatSpawn(ev))
	})
}

func (p *bulkPresenter) Report(res dispatch.Result) {
	r, ok := res.(*bulk.Result)
	if !ok {
		return
	}

	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%s %d succeeded\n", SuccessStyle.Render("✓"), len(r.Succeeded))
	if len(r.Failed) > 0 {
		fmt.Fprintf(p.w, "%s %d failed\n", ErrorStyle.Render("✗"), len(r.Failed))
		for _, m := range r.Failed {
			fmt.Fprintf(p.w, "  • %s\n", VerboseStyle.Render(m.Dir))
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(p.w, "%s %d skipped after --bail\n", WarningStyle.Render("!"), len(r.Skipped))
	}
}

func (p *resultPresenter) Attach(*events.Bus) {}

func (p *resultPresenter) Report(res dispatch.Result) {
	switch r := res.(type) {
	case []modules.Module:
		for _, m := range r {
			fmt.Fprintln(p.w, m.Dir)
		}
	case *config.Config:
		fmt.Fprint(p.w, config.GenerateCUE(r))
	case *expand.Result:
		for _, src := range r.Sources {
			fmt.Fprintln(p.w, src)
		}
		fmt.Fprintf(p.w, "%s wrote %d source(s) to %s\n", SuccessStyle.Render("✓"), len(r.Sources), r.Path)
	}
}

// formatSpawn renders "spawning <argv> <dir>" with argv shell-quoted so it
// can be pasted back into a terminal.
func formatSpawn(ev events.Spawn) string {
	words := make([]string, 0, len(ev.Args)+1)
	for _, w := range append([]string{ev.Command}, ev.Args...) {
		words = append(words, quoteWord(w))
	}
	return fmt.Sprintf("%s %s %s",
		actionStyle.Render("spawning"),
		CmdStyle.Render(strings.Join(words, " ")),
		VerboseStyle.Render(ev.Dir))
}

func quoteWord(w string) string {
	quoted, err := syntax.Quote(w, syntax.LangBash)
	if err != nil {
		return strconv.Quote(w)
	}
	return quoted
}
