// SPDX-License-Identifier: MPL-2.0

// Package bootstrap prepares a freshly cloned working tree: it links every
// module, removes shadowing copies and installs external dependencies, all
// reported on one event bus.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"aperture-cli/internal/config"
	"aperture-cli/internal/dedupe"
	"aperture-cli/internal/events"
	"aperture-cli/internal/install"
	"aperture-cli/internal/link"

	"github.com/charmbracelet/log"
)

type (
	// Result collects the outcome of each step.
	Result struct {
		Link    *link.Result
		Dedupe  *dedupe.Result
		Install *install.Result
	}

	// Bootstrapper runs the open sequence.
	Bootstrapper struct {
		linker    *link.Linker
		deduper   *dedupe.Deduper
		installer *install.Installer
		logger    *log.Logger
	}

	// StepError names the step that failed.
	StepError struct {
		Step string
		Err  error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error { return e.Err }

// New creates a Bootstrapper from its three steps.
func New(linker *link.Linker, deduper *dedupe.Deduper, installer *install.Installer, logger *log.Logger) *Bootstrapper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bootstrapper{linker: linker, deduper: deduper, installer: installer, logger: logger}
}

// Open links, dedupes and installs the tree under root. The first failing
// step stops the sequence.
func (b *Bootstrapper) Open(ctx context.Context, root string, cfg *config.Config, bus *events.Bus) (*Result, error) {
	res := &Result{}
	var err error

	b.logger.Debug("linking modules", "root", root)
	if res.Link, err = b.linker.Link(ctx, root, cfg.LinkDir, bus); err != nil {
		return nil, &StepError{Step: "link", Err: err}
	}

	b.logger.Debug("removing duplicates", "root", root)
	if res.Dedupe, err = b.deduper.Dedupe(ctx, root, bus); err != nil {
		return nil, &StepError{Step: "dedupe", Err: err}
	}

	b.logger.Debug("installing dependencies", "root", root)
	if res.Install, err = b.installer.Install(ctx, root, cfg.Install.Command, bus); err != nil {
		return nil, &StepError{Step: "install", Err: err}
	}

	return res, nil
}
