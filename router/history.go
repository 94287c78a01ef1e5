package router

import (
	"fmt"
	"net/url"
	"sync"
)

// Location is a navigation target. FromRuntime marks locations pushed by
// this runtime, so listeners can ignore navigation they did not produce.
type Location struct {
	Path        string
	Query       url.Values
	FromRuntime bool
}

// String renders the location as a URL reference.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// History is the host navigation collaborator (browser history on wasm).
type History interface {
	// Push adds a location and notifies listeners.
	Push(loc Location) error
	// Reload leaves the client runtime, e.g. for paths no page handles.
	Reload(loc Location)
	// Listen registers fn for location changes and returns its release func.
	Listen(fn func(Location)) (unlisten func())
}

// NavigateOptions selects a navigation target either by page name and
// params or by a raw path.
type NavigateOptions struct {
	Page     string
	Params   map[string]string
	Query    url.Values
	To       string
	Fallback string
}

// Navigate resolves opts against pages and pushes the result to h.
// It reports false when the target cannot be resolved and no fallback applies.
func Navigate(h History, pages map[string]Page, opts NavigateOptions) (bool, error) {
	path := opts.To
	if opts.Page != "" {
		page, ok := pages[opts.Page]
		if !ok {
			if opts.Fallback == "" {
				return false, fmt.Errorf("%w: page %q", ErrNoRoute, opts.Page)
			}
			path = opts.Fallback
		} else {
			built, err := BuildPath(page.Path, opts.Params)
			if err != nil {
				return false, fmt.Errorf("navigate to %s: %w", opts.Page, err)
			}
			path = built
		}
	}
	if path == "" {
		return false, nil
	}
	if err := h.Push(Location{Path: path, Query: opts.Query, FromRuntime: true}); err != nil {
		return false, fmt.Errorf("push %s: %w", path, err)
	}
	return true, nil
}

// MemoryHistory is an in-memory History for tests and server rendering.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []Location
	reloads   []Location
	listeners map[int]func(Location)
	nextID    int
}

// NewMemoryHistory starts at initial.
func NewMemoryHistory(initial Location) *MemoryHistory {
	return &MemoryHistory{
		entries:   []Location{initial},
		listeners: make(map[int]func(Location)),
	}
}

// Push implements History.
func (h *MemoryHistory) Push(loc Location) error {
	h.mu.Lock()
	h.entries = append(h.entries, loc)
	fns := make([]func(Location), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
	return nil
}

// Reload implements History.
func (h *MemoryHistory) Reload(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloads = append(h.reloads, loc)
}

// Listen implements History.
func (h *MemoryHistory) Listen(fn func(Location)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Current returns the latest location.
func (h *MemoryHistory) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Reloads returns the locations handed to Reload.
func (h *MemoryHistory) Reloads() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.reloads...)
}
