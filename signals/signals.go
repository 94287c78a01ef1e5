// Package signals provides a typed reactive value for process-wide state that
// observers outside the component tree need to follow, such as the active
// culture or the extension currently being edited.
package signals

import "sync"

type subscriber struct {
	fn func()
}

// Signal[T] is a reactive value that notifies subscribers when changed.
// Subscribers run on the goroutine that called Set, after the lock is
// released, in subscription order.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	subs  []*subscriber
}

// NewSignal creates a Signal with an initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies all subscribers.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

// Subscribe registers a callback fired when the value changes.
// Returns an unsubscribe func; calling it more than once is harmless.
func (s *Signal[T]) Subscribe(fn func()) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
