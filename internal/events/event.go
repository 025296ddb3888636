// SPDX-License-Identifier: MPL-2.0

package events

import "fmt"

const (
	// KindLink reports a module linked into the working tree.
	KindLink Kind = iota + 1
	// KindQueued reports a redundant module copy marked for removal.
	KindQueued
	// KindProgress reports fractional progress of a dependency check.
	KindProgress
	// KindSpawn reports a child process about to start.
	KindSpawn
)

type (
	// Kind discriminates the event variants.
	Kind int

	// Event is implemented only by the variants declared in this package.
	Event interface {
		Kind() Kind
		isEvent()
	}

	// Link is emitted once per module linked into the working tree.
	Link struct {
		// Path is the module directory that was linked.
		Path string
	}

	// Queued is emitted for every duplicate module copy scheduled for removal.
	Queued struct {
		// Path is the duplicate directory that will be removed.
		Path string
	}

	// Progress carries a completion fraction in the range [0, 1].
	Progress struct {
		Fraction float64
	}

	// Spawn is emitted immediately before a child process is started,
	// regardless of whether the start succeeds.
	Spawn struct {
		Dir     string
		Command string
		Args    []string
	}
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindQueued:
		return "queued"
	case KindProgress:
		return "info progress"
	case KindSpawn:
		return "spawn"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kind implements Event.
func (Link) Kind() Kind { return KindLink }

// Kind implements Event.
func (Queued) Kind() Kind { return KindQueued }

// Kind implements Event.
func (Progress) Kind() Kind { return KindProgress }

// Kind implements Event.
func (Spawn) Kind() Kind { return KindSpawn }

func (Link) isEvent()     {}
func (Queued) isEvent()   {}
func (Progress) isEvent() {}
func (Spawn) isEvent()    {}

// Percent returns the fraction as a whole percentage, truncated and clamped to 0-100.
func (p Progress) Percent() int {
	switch {
	case p.Fraction <= 0:
		return 0
	case p.Fraction >= 1:
		return 100
	default:
		return int(p.Fraction * 100)
	}
}
