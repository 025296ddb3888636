// SPDX-License-Identifier: MPL-2.0

// Package runtime spawns child processes for aperture.
//
// NativeRuntime runs a command directly (no intermediate shell) in a module
// directory and reports its exit status as a Result. A non-zero exit is a
// normal outcome carried in Result.ExitCode; Result.Error is reserved for
// infrastructure failures such as a missing executable.
package runtime
