// SPDX-License-Identifier: MPL-2.0

// Package config handles aperture configuration using Viper with CUE as the file format.
//
// A project keeps its settings in aperture.cue at the working-tree root. When
// that file is absent the user-level file is tried: $XDG_CONFIG_HOME/aperture/config.cue
// on Linux, ~/Library/Application Support/aperture/config.cue on macOS and
// %APPDATA%\aperture\config.cue on Windows. Every key can be overridden from
// the environment with the APERTURE_ prefix (APERTURE_BAIL=true).
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
