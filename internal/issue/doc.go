// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError records what aperture was doing, on which resource, and
// what the user can try next. The issue catalog maps the failure classes of
// the CLI (configuration, discovery, bulk validation, module failures) to
// Markdown guidance rendered for the terminal.
package issue
