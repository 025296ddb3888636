// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"aperture-cli/internal/dispatch"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the parsed global flags.
type rootOptions struct {
	bail       bool
	version    bool
	cwd        string
	configPath string
	verbose    bool
}

// NewRootCommand creates the aperture root command bound to app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "aperture <command> [args...]",
		Short: "Manage the local modules of a working tree",
		Long: TitleStyle.Render("aperture") + SubtitleStyle.Render(" - Manage the local modules of a working tree") + `

aperture links the modules of a working tree into each other, removes
duplicate installs, installs external dependencies and runs commands
across every module.

` + SubtitleStyle.Render("Examples:") + `
  aperture open             Link, dedupe and install
  aperture ls               List module directories
  aperture bulk npm test    Run 'npm test' in every module
  aperture each -b -- npm run build --if-present`,
		Args:              cobra.ArbitraryArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.SetVerbose(opts.verbose)

			inv, err := opts.invocation(cmd, args)
			if err == nil {
				err = app.Run(cmd.Context(), inv, opts.configPath, opts.verbose)
			}
			if err != nil {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return err
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.bail, "bail", "b", false, `exit early on reaching an error during "aperture bulk"`)
	flags.BoolVarP(&opts.version, "version", "v", false, "output the current version and exit")
	flags.StringVarP(&opts.cwd, "cwd", "d", "", "target a different directory for this command (default: current directory)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is <cwd>/aperture.cue)")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")

	return rootCmd
}

// invocation turns the parsed command line into a dispatch request.
func (o *rootOptions) invocation(cmd *cobra.Command, args []string) (dispatch.Invocation, error) {
	root := o.cwd
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return dispatch.Invocation{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return dispatch.Invocation{}, fmt.Errorf("failed to resolve %s: %w", o.cwd, err)
	}

	inv := dispatch.Invocation{Root: root, Version: o.version}
	if len(args) > 0 {
		inv.Name = args[0]
		inv.Args = args[1:]
	}
	if cmd.Flags().Changed("bail") {
		bail := o.bail
		inv.Bail = &bail
	}
	return inv, nil
}

// Run dispatches inv and renders its outcome.
func (a *App) Run(ctx context.Context, inv dispatch.Invocation, configPath string, verbose bool) error {
	report, err := a.dispatcher.Dispatch(ctx, inv, a.configLoader(configPath, inv.Root))
	if err != nil {
		a.renderError(err, verbose)
		return &ExitError{Code: 1, Err: err}
	}

	switch report.Outcome {
	case dispatch.OutcomeVersion:
		fmt.Fprintln(a.stdout, getVersionString())
	case dispatch.OutcomeUsage:
		a.renderUsage(report.Unknown)
	case dispatch.OutcomeRan:
		if !report.ExitCode.IsSuccess() {
			a.renderFailures(report)
			return &ExitError{Code: report.ExitCode}
		}
	}
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute builds the application and runs the root command.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	if err := fang.Execute(context.Background(), NewRootCommand(app), fangOptions()...); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// fangOptions configures fang for the root command.
func fangOptions() []fang.Option {
	return []fang.Option{
		// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	}
}

// handleError prints errors that escaped the App. An *ExitError has already
// been rendered by App.Run and only carries the exit code.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
