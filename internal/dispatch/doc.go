// SPDX-License-Identifier: MPL-2.0

// Package dispatch routes a command name to the subsystem that handles it.
//
// A Registry maps every accepted spelling (canonical names and aliases such
// as "ln" or the "isntall" typo) to one Command, and is immutable once built.
// The Dispatcher turns an Invocation into exactly one of three outcomes:
// usage (no or unknown command), version (which wins over everything else
// and touches no subsystem), or a handler run. For a run it clones the
// configuration, applies the invocation's overrides once, creates a fresh
// events.Bus, attaches the command's Presenter and only then calls the
// handler, so no event can be emitted before someone is listening.
package dispatch
