// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Bail {
		t.Error("expected bail to be false by default")
	}
	if !slices.Equal(cfg.Sources, []string{"**"}) {
		t.Errorf("Sources = %v, want [**]", cfg.Sources)
	}
	if !slices.Equal(cfg.Ignore, []string{"node_modules", ".git"}) {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.LinkDir != "node_modules" {
		t.Errorf("LinkDir = %q, want node_modules", cfg.LinkDir)
	}
	if cfg.Install.Command != "npm install" {
		t.Errorf("Install.Command = %q, want npm install", cfg.Install.Command)
	}
	if cfg.Bulk.Command != "" || cfg.Bulk.Args != nil {
		t.Errorf("Bulk = %+v, want zero", cfg.Bulk)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	orig.Bulk = BulkConfig{Command: "echo", Args: []string{"a"}}

	clone := orig.Clone()
	clone.Bail = true
	clone.Sources[0] = "packages/*"
	clone.Ignore = append(clone.Ignore, "dist")
	clone.Bulk.Args[0] = "b"
	clone.Install.Command = "yarn add"

	if orig.Bail {
		t.Error("clone shares Bail with original")
	}
	if orig.Sources[0] != "**" {
		t.Errorf("clone shares Sources backing array: %v", orig.Sources)
	}
	if len(orig.Ignore) != 2 {
		t.Errorf("clone shares Ignore: %v", orig.Ignore)
	}
	if orig.Bulk.Args[0] != "a" {
		t.Errorf("clone shares Bulk.Args: %v", orig.Bulk.Args)
	}
	if orig.Install.Command != "npm install" {
		t.Errorf("clone shares Install: %q", orig.Install.Command)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty source", func(c *Config) { c.Sources = []string{"a", " "} }, "sources[1]"},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }, "max_depth"},
		{"empty link dir", func(c *Config) { c.LinkDir = "" }, "link_dir"},
		{"empty install command", func(c *Config) { c.Install.Command = "" }, "install.command"},
		{"no sources", func(c *Config) { c.Sources = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidConfigErrorCollectsAllFields(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxDepth = -1
	cfg.LinkDir = ""

	var invalid *InvalidConfigError
	if !errors.As(cfg.Validate(), &invalid) {
		t.Fatal("expected *InvalidConfigError")
	}
	if len(invalid.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want 2 entries", invalid.FieldErrors)
	}
}
