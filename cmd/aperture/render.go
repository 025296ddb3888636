// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"aperture-cli/internal/bulk"
	"aperture-cli/internal/config"
	"aperture-cli/internal/dispatch"
	"aperture-cli/internal/install"
	"aperture-cli/internal/issue"
	"aperture-cli/internal/link"
	"aperture-cli/internal/modules"

	"github.com/charmbracelet/x/term"
)

//go:embed usage.md
var usageTemplate string

// renderUsage prints the usage text, falling back to the raw markdown when
// it cannot be styled.
func (a *App) renderUsage(unknown string) {
	if unknown != "" {
		fmt.Fprintf(a.stderr, "%s unknown command %s\n", WarningStyle.Render("!"), CmdStyle.Render(unknown))
	}
	md := a.usageMarkdown()
	rendered, err := issue.RenderMarkdown(md, a.styleFor(a.stdout))
	if err != nil {
		a.logger.Debug("usage rendering failed", "err", err)
		rendered = md
	}
	fmt.Fprint(a.stdout, rendered)
}

// usageMarkdown fills the command table of the usage text from the registry.
func (a *App) usageMarkdown() string {
	var rows strings.Builder
	for _, c := range a.dispatcher.Registry().Commands() {
		aliases := make([]string, len(c.Aliases))
		for i, alias := range c.Aliases {
			aliases[i] = "`" + alias + "`"
		}
		fmt.Fprintf(&rows, "| `%s` | %s | %s |\n", c.Name, strings.Join(aliases, ", "), c.Summary)
	}
	return strings.Replace(usageTemplate, "{{commands}}\n", rows.String(), 1)
}

// styleFor returns the glamour style for output written to w. An explicit
// style wins; otherwise terminals get "auto" and everything else "notty".
func (a *App) styleFor(w io.Writer) string {
	if a.markdownStyle != "" {
		return a.markdownStyle
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) {
		return "auto"
	}
	return "notty"
}

// renderError prints a fatal error followed by the catalog guidance for its
// class, when there is one.
func (a *App) renderError(err error, verbose bool) {
	issueID, known := classifyError(err)
	if known {
		if rendered, renderErr := issue.Get(issueID).Render(a.styleFor(a.stderr)); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	fmt.Fprintf(a.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// renderFailures prints catalog guidance for a run that completed with a
// non-zero exit code.
func (a *App) renderFailures(report *dispatch.Report) {
	res, ok := report.Result.(*bulk.Result)
	if !ok {
		return
	}

	issueID := issue.ModulesFailedId
	for _, err := range res.Errors {
		if errors.Is(err, exec.ErrNotFound) {
			issueID = issue.CommandNotFoundId
			break
		}
	}
	if rendered, err := issue.Get(issueID).Render(a.styleFor(a.stderr)); err == nil {
		fmt.Fprint(a.stderr, rendered)
	}
	for _, m := range res.Failed {
		if cause, ok := res.Errors[m.Dir]; ok {
			fmt.Fprintf(a.stderr, "%s %s: %v\n", ErrorStyle.Render("✗"), m.Dir, cause)
		}
	}
}

// classifyError maps a fatal error to its issue catalog entry.
func classifyError(err error) (issue.Id, bool) {
	var (
		discoveryErr *modules.DiscoveryError
		linkErr      *link.Error
		ae           *issue.ActionableError
	)

	switch {
	case errors.Is(err, bulk.ErrMissingCommand):
		return issue.BulkCommandMissingId, true
	case errors.As(err, &discoveryErr), errors.Is(err, modules.ErrInvalidSource):
		return issue.DiscoveryFailedId, true
	case errors.Is(err, install.ErrInstallFailed):
		return issue.InstallFailedId, true
	case errors.As(err, &linkErr):
		return issue.LinkFailedId, true
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId, true
	case errors.As(err, &ae) && (ae.Operation == "load configuration" || ae.Operation == "validate configuration"):
		return issue.ConfigLoadFailedId, true
	default:
		return 0, false
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
