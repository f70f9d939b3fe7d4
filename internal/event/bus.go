package event

import (
	"sync"
	"time"
)

// Listener receives events. Listeners run synchronously on the emitting
// goroutine while the bus lock is held, so they must not call back into the
// same Bus.
type Listener func(Event)

// Bus is a listener registry owned by one copy invocation. Once sealed it
// drops every further event.
type Bus struct {
	listeners map[Type][]Listener
	any       []Listener
	mu        sync.Mutex
	sealed    bool
}

// On registers fn for events of type t.
func (b *Bus) On(t Type, fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[Type][]Listener)
	}
	b.listeners[t] = append(b.listeners[t], fn)
}

// OnAny registers fn for every event type.
func (b *Bus) OnAny(fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.any = append(b.any, fn)
}

// Emit delivers ev to its listeners. It returns false without delivering if
// the bus has been sealed.
func (b *Bus) Emit(ev Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return false
	}
	b.dispatch(ev)
	return true
}

// Seal delivers the final events in order and seals the bus. Only the first
// call succeeds; later calls deliver nothing and return false.
func (b *Bus) Seal(final ...Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return false
	}
	b.sealed = true
	for _, ev := range final {
		b.dispatch(ev)
	}
	return true
}

func (b *Bus) dispatch(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	for _, fn := range b.listeners[ev.Type] {
		fn(ev)
	}
	for _, fn := range b.any {
		fn(ev)
	}
}
