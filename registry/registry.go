// Package registry maps component identifiers to the Go factories that
// implement them.
//
// A component id has the shape "<app>/<Component>" (for example
// "shop.product/ProductDetails"). Identifiers are opaque except for App,
// which the store uses to decide whether an app's messages are already loaded.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// Props are the properties passed to a component instance.
type Props = map[string]any

// Factory builds a component instance for props. children is the content
// passed through by the enclosing extension point.
type Factory func(props Props, children []*vdom.VNode) runtime.Component

// Field describes one editable property in a component schema.
type Field struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Default any    `json:"default,omitempty"`
}

// Schema is the editable configuration a component declares.
type Schema struct {
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"fields"`
}

// Entry is a registered component.
type Entry struct {
	ID      string
	Factory Factory
	Schema  *Schema
}

// Registry is the process-wide component registry. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Option configures an entry at registration time.
type Option func(*Entry)

// WithSchema declares the component editable with the given schema.
func WithSchema(s Schema) Option {
	return func(e *Entry) { e.Schema = &s }
}

// Register adds or replaces the factory for id.
func (reg *Registry) Register(id string, f Factory, opts ...Option) {
	e := Entry{ID: id, Factory: f}
	for _, opt := range opts {
		opt(&e)
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entries[id] = e
}

// Lookup returns the entry for id.
func (reg *Registry) Lookup(id string) (Entry, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.entries[id]
	return e, ok
}

// HasApp reports whether any component of app is registered.
func (reg *Registry) HasApp(app string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for id := range reg.entries {
		if App(id) == app {
			return true
		}
	}
	return false
}

// IDs returns the registered ids in sorted order.
func (reg *Registry) IDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.entries))
	for id := range reg.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// App returns the app part of a component id.
func App(id string) string {
	app, _, _ := strings.Cut(id, "/")
	return app
}
