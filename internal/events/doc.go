// SPDX-License-Identifier: MPL-2.0

// Package events provides the per-invocation event bus that subsystems use to
// report progress without knowing who is listening.
//
// The vocabulary is closed: every event is one of Link, Queued, Progress or
// Spawn, each carrying its own payload. Listeners are registered per Kind and
// are invoked synchronously, in registration order, by Emit. Nothing is
// buffered, so a listener registered after an event fired never sees it.
package events
