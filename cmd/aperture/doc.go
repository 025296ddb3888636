// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the aperture command line.
//
// aperture has a single Cobra root command. Its first positional argument
// names the command (link, dedupe, install, bulk, open, list, expand, config
// or version, plus their aliases) and is resolved by internal/dispatch rather
// than by Cobra subcommands, so an unknown name prints usage instead of
// failing. Presenters in this package turn the events of a run into terminal
// output; the subsystems themselves never print.
package cmd
