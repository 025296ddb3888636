// SPDX-License-Identifier: MPL-2.0

package events

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

type (
	// Listener receives one event.
	Listener func(Event)

	// Bus is a synchronous publish/subscribe channel scoped to one command
	// invocation. The zero value is not usable; call NewBus.
	Bus struct {
		mu     sync.Mutex
		subs   map[Kind][]subscription
		logger *log.Logger
	}

	subscription struct {
		fn   Listener
		once bool
	}
)

// NewBus creates an empty bus. Listener panics are reported to logger;
// a nil logger discards them.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{
		subs:   make(map[Kind][]subscription),
		logger: logger,
	}
}

// Subscribe registers fn for every future event of the given kind and
// returns the bus so registrations can be chained.
func (b *Bus) Subscribe(kind Kind, fn Listener) *Bus {
	return b.add(kind, subscription{fn: fn})
}

// SubscribeOnce registers fn for the next event of the given kind only.
func (b *Bus) SubscribeOnce(kind Kind, fn Listener) *Bus {
	return b.add(kind, subscription{fn: fn, once: true})
}

func (b *Bus) add(kind Kind, sub subscription) *Bus {
	if sub.fn == nil {
		return b
	}
	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], sub)
	b.mu.Unlock()
	return b
}

// Emit delivers ev to the listeners registered for its kind at the time of
// the call, in registration order. Once-listeners are removed before they
// run, so a re-entrant Emit from inside a listener cannot fire them twice.
func (b *Bus) Emit(ev Event) {
	if ev == nil {
		return
	}
	kind := ev.Kind()

	b.mu.Lock()
	current := b.subs[kind]
	snapshot := make([]subscription, len(current))
	copy(snapshot, current)
	kept := current[:0:0]
	for _, sub := range current {
		if !sub.once {
			kept = append(kept, sub)
		}
	}
	b.subs[kind] = kept
	b.mu.Unlock()

	for _, sub := range snapshot {
		b.deliver(kind, sub.fn, ev)
	}
}

// Listeners reports how many listeners are registered for kind.
func (b *Bus) Listeners(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}

// deliver isolates listener panics so later listeners still run.
func (b *Bus) deliver(kind Kind, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked", "event", kind, "panic", r)
		}
	}()
	fn(ev)
}

// On registers a listener typed to a single variant. The kind is derived
// from E, so the listener and the vocabulary cannot drift apart.
func On[E Event](b *Bus, fn func(E)) *Bus {
	var zero E
	return b.Subscribe(zero.Kind(), typed(fn))
}

// Once is the single-shot form of On.
func Once[E Event](b *Bus, fn func(E)) *Bus {
	var zero E
	return b.SubscribeOnce(zero.Kind(), typed(fn))
}

func typed[E Event](fn func(E)) Listener {
	return func(ev Event) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	}
}
