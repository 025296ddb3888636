// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem fixtures (MustMkdirAll, MustWriteFile,
// WriteModule) and a scripted process runner (FakeRunner) for code that
// spawns children.
package testutil
