// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// DefaultLinkDir receives module links under the project root.
	DefaultLinkDir = "node_modules"
	// DefaultInstallCommand installs external dependencies of a module.
	DefaultInstallCommand = "npm install"
	// DefaultMaxDepth bounds module discovery below the root.
	DefaultMaxDepth = 4
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the configuration of one aperture invocation.
	Config struct {
		// Bail stops a bulk run at the first failing module.
		Bail bool `json:"bail" mapstructure:"bail"`
		// Sources are globs selecting module directories.
		Sources []string `json:"sources" mapstructure:"sources"`
		// Ignore lists directory names discovery skips.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// MaxDepth limits discovery depth.
		MaxDepth int `json:"max_depth" mapstructure:"max_depth"`
		// LinkDir is the directory under the root receiving module links.
		LinkDir string `json:"link_dir" mapstructure:"link_dir"`
		// Install configures dependency installation.
		Install InstallConfig `json:"install" mapstructure:"install"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Bulk is derived from the command line for each invocation and is
		// never read from configuration files.
		Bulk BulkConfig `json:"-" mapstructure:"-"`
	}

	// InstallConfig configures the install command.
	InstallConfig struct {
		// Command is split into shell words; dependency specs are appended.
		Command string `json:"command" mapstructure:"command"`
	}

	// UIConfig configures output.
	UIConfig struct {
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// BulkConfig is the command a bulk run executes in every module.
	BulkConfig struct {
		Command string
		Args    []string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bail:     false,
		Sources:  []string{"**"},
		Ignore:   []string{"node_modules", ".git"},
		MaxDepth: DefaultMaxDepth,
		LinkDir:  DefaultLinkDir,
		Install: InstallConfig{
			Command: DefaultInstallCommand,
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}

// Clone returns a deep copy, so a caller can derive per-invocation settings
// without touching the loaded configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Sources = slices.Clone(c.Sources)
	out.Ignore = slices.Clone(c.Ignore)
	out.Bulk.Args = slices.Clone(c.Bulk.Args)
	return &out
}

// Validate checks constraints on values that may come from the environment,
// which bypasses the CUE schema.
func (c *Config) Validate() error {
	var errs []error
	for i, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: must not be empty", i))
		}
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth: must be at least 1 (got %d)", c.MaxDepth))
	}
	if strings.TrimSpace(c.LinkDir) == "" {
		errs = append(errs, errors.New("link_dir: must not be empty"))
	}
	if strings.TrimSpace(c.Install.Command) == "" {
		errs = append(errs, errors.New("install.command: must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
