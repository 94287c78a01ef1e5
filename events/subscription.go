package events

import "sync"

// Subscription is a scoped registration of one listener under several names.
// Close removes exactly the names it was created with and is safe to call
// more than once, so it can be deferred on every exit path.
type Subscription struct {
	once     sync.Once
	emitter  *Emitter
	listener Listener
	names    []string
}

// Subscribe registers l for each name and returns the handle that releases
// them.
func Subscribe(em *Emitter, l Listener, names ...string) *Subscription {
	s := &Subscription{
		emitter:  em,
		listener: l,
		names:    append([]string(nil), names...),
	}
	for _, name := range s.names {
		em.AddListener(name, l)
	}
	return s
}

// Names returns the names this subscription holds.
func (s *Subscription) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Close releases the subscription. A nil subscription is a no-op.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		for _, name := range s.names {
			s.emitter.RemoveListener(name, s.listener)
		}
	})
}
