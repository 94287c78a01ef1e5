package testcomponents

import (
	"context"
	"fmt"
	"sync"

	"github.com/vcrobe/nojs-render/store"
)

// Backend is a programmable store.Backend. Responses are configured per
// operation key: "runtime", "messages:<locale>" (or
// "messages:<locale>:<app>") and "assets:<component>". A gated key blocks
// its callers until the gate is released, which lets tests decide the order
// in which concurrent responses arrive.
type Backend struct {
	mu       sync.Mutex
	runtime  *store.RuntimePayload
	messages map[string]store.Messages
	gates    map[string]chan struct{}
	failures map[string][]error
	calls    map[string]int
	requests []store.MessagesRequest
}

var (
	_ store.Backend = (*Backend)(nil)
	_ store.Saver   = (*Saver)(nil)
	_ store.Catalog = (*Catalog)(nil)
)

// NewBackend creates a backend with no configured responses.
func NewBackend() *Backend {
	return &Backend{
		messages: make(map[string]store.Messages),
		gates:    make(map[string]chan struct{}),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// RuntimeKey is the operation key of FetchRuntime.
const RuntimeKey = "runtime"

// MessagesKey returns the operation key of FetchMessages.
func MessagesKey(locale, app string) string {
	if app == "" {
		return "messages:" + locale
	}
	return "messages:" + locale + ":" + app
}

// AssetsKey returns the operation key of FetchAssets.
func AssetsKey(componentID string) string {
	return "assets:" + componentID
}

// SetRuntime sets the payload FetchRuntime returns.
func (b *Backend) SetRuntime(p *store.RuntimePayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runtime = p
}

// SetMessages sets the bundle returned for a locale, and app when not "".
func (b *Backend) SetMessages(locale, app string, m store.Messages) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[MessagesKey(locale, app)] = m
}

// Gate blocks calls of key until the returned release func is called.
func (b *Backend) Gate(key string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[key] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Fail queues errors returned by the next calls of key, one per call.
func (b *Backend) Fail(key string, errs ...error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = append(b.failures[key], errs...)
}

// Calls returns how many times key was called.
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

// MessageRequests returns every FetchMessages request received.
func (b *Backend) MessageRequests() []store.MessagesRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]store.MessagesRequest(nil), b.requests...)
}

// enter records a call and waits on its gate.
func (b *Backend) enter(ctx context.Context, key string) error {
	b.mu.Lock()
	b.calls[key]++
	gate := b.gates[key]
	var err error
	if queued := b.failures[key]; len(queued) > 0 {
		err = queued[0]
		b.failures[key] = queued[1:]
	}
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// FetchRuntime implements store.Backend.
func (b *Backend) FetchRuntime(ctx context.Context, req store.RuntimeRequest) (*store.RuntimePayload, error) {
	if err := b.enter(ctx, RuntimeKey); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.runtime == nil {
		return nil, fmt.Errorf("no runtime configured")
	}
	p := *b.runtime
	return &p, nil
}

// FetchMessages implements store.Backend.
func (b *Backend) FetchMessages(ctx context.Context, req store.MessagesRequest) (store.Messages, error) {
	key := MessagesKey(req.Locale, req.App)
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()
	if err := b.enter(ctx, key); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.messages[key]
	if !ok {
		return nil, store.Permanent(fmt.Errorf("no messages for %s", key))
	}
	out := make(store.Messages, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// FetchAssets implements store.Backend.
func (b *Backend) FetchAssets(ctx context.Context, componentID string, d store.ComponentDescriptor) error {
	return b.enter(ctx, AssetsKey(componentID))
}

// SavedExtension is a call recorded by Saver.
type SavedExtension struct {
	TreePath  string
	Component string
	Props     store.Props
}

// Saver records saves and fails with Err when set.
type Saver struct {
	mu    sync.Mutex
	Err   error
	saved []SavedExtension
}

// SaveExtension implements store.Saver.
func (s *Saver) SaveExtension(ctx context.Context, treePath, component string, props store.Props) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.saved = append(s.saved, SavedExtension{TreePath: treePath, Component: component, Props: props})
	return nil
}

// Saved returns the recorded saves.
func (s *Saver) Saved() []SavedExtension {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavedExtension(nil), s.saved...)
}

// Catalog serves a fixed component list.
type Catalog struct {
	Components []store.AvailableComponent
	Err        error
}

// AvailableComponents implements store.Catalog.
func (c *Catalog) AvailableComponents(ctx context.Context, treePath string) ([]store.AvailableComponent, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]store.AvailableComponent(nil), c.Components...), nil
}
