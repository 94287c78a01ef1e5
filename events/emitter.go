// Package events is the named publish/subscribe bus that drives selective
// re-resolution of mounted extension points.
//
// Emission is synchronous: Emit invokes the listeners registered for a name
// in registration order, on the calling goroutine, before returning. The set
// of listeners is snapshotted when Emit starts, so a listener added during an
// emission is not invoked by that emission. A listener removed during an
// emission is not invoked after its removal.
package events

import (
	"sync"

	"github.com/vcrobe/nojs-render/console"
)

// Event is delivered to listeners.
type Event struct {
	Name    string
	Payload any
}

// Listener receives events. Listeners are identified by interface equality,
// so implementations must be comparable (pointer receivers are the norm).
type Listener interface {
	HandleEvent(e Event)
}

// Handler adapts a function into a Listener with a stable identity.
type Handler struct {
	fn func(Event)
}

// NewHandler wraps fn. Each call returns a distinct listener.
func NewHandler(fn func(Event)) *Handler {
	return &Handler{fn: fn}
}

// HandleEvent implements Listener.
func (h *Handler) HandleEvent(e Event) {
	if h.fn != nil {
		h.fn(e)
	}
}

// registration is one listener entry. removed is only touched under the
// emitter lock.
type registration struct {
	listener Listener
	removed  bool
}

// Emitter is a multi-consumer named event bus. The zero value is not usable;
// create instances with NewEmitter.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]*registration
}

// NewEmitter creates an empty bus.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]*registration)}
}

// AddListener registers l for name. Registering the same listener twice for
// the same name is a no-op. It returns the emitter so calls can be chained.
func (em *Emitter) AddListener(name string, l Listener) *Emitter {
	if l == nil {
		return em
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	for _, reg := range em.listeners[name] {
		if reg.listener == l {
			return em
		}
	}
	em.listeners[name] = append(em.listeners[name], &registration{listener: l})
	console.Debug("[events] listen", name)
	return em
}

// RemoveListener deregisters l for name. Removing an absent listener is a
// no-op.
func (em *Emitter) RemoveListener(name string, l Listener) *Emitter {
	em.mu.Lock()
	defer em.mu.Unlock()
	regs := em.listeners[name]
	for i, reg := range regs {
		if reg.listener != l {
			continue
		}
		reg.removed = true
		kept := make([]*registration, 0, len(regs)-1)
		kept = append(kept, regs[:i]...)
		kept = append(kept, regs[i+1:]...)
		if len(kept) == 0 {
			delete(em.listeners, name)
		} else {
			em.listeners[name] = kept
		}
		console.Debug("[events] unlisten", name)
		break
	}
	return em
}

// Emit delivers an event to the listeners registered for name and returns
// how many were invoked.
func (em *Emitter) Emit(name string, payload any) int {
	em.mu.Lock()
	snapshot := em.listeners[name]
	em.mu.Unlock()

	console.Debug("[events] emit", name, "listeners:", len(snapshot))

	e := Event{Name: name, Payload: payload}
	invoked := 0
	for _, reg := range snapshot {
		em.mu.Lock()
		removed := reg.removed
		em.mu.Unlock()
		if removed {
			continue
		}
		reg.listener.HandleEvent(e)
		invoked++
	}
	return invoked
}

// ListenerCount reports how many listeners are registered for name.
func (em *Emitter) ListenerCount(name string) int {
	em.mu.Lock()
	defer em.mu.Unlock()
	return len(em.listeners[name])
}

// Names returns the event names that currently have listeners.
func (em *Emitter) Names() []string {
	em.mu.Lock()
	defer em.mu.Unlock()
	names := make([]string, 0, len(em.listeners))
	for name := range em.listeners {
		names = append(names, name)
	}
	return names
}
