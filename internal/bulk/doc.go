// SPDX-License-Identifier: MPL-2.0

// Package bulk runs one command in every module of a working tree.
//
// Modules are processed strictly one at a time in discovery order: module
// N+1 is never started before module N's child has exited. Each module is
// announced with an events.Spawn immediately before its child starts. A
// non-zero exit or a start failure marks the module failed; with Bail set
// the run stops there and the modules never attempted are reported as
// skipped. A run with failed modules still returns a nil error; the caller
// turns Result.ExitCode into the process exit status.
package bulk
