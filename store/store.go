// Package store owns the runtime state of a rendered page: components,
// extensions, pages, culture and messages.
//
// The Store is the only writer of that state. Every mutation of extensions or
// components is followed by exactly one emission on the events bus naming the
// affected scope, and the emission happens after the mutation is complete.
// Remote operations (runtime refresh, locale switch, component fetch) do not
// hold the store lock while in flight; each async axis carries a request
// sequence number and responses older than the last applied one are dropped.
package store

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/signals"
)

// Options are the collaborators of a Store. Emitter is required; the others
// may be nil, in which case the operations needing them fail.
type Options struct {
	Backend     Backend
	Emitter     *events.Emitter
	Registry    *registry.Registry
	Preferences Preferences
	History     router.History
	Settings    Settings
}

// Store is the runtime state store.
type Store struct {
	mu    sync.Mutex
	state RuntimePayload

	backend  Backend
	emitter  *events.Emitter
	registry *registry.Registry
	prefs    Preferences
	history  router.History
	settings Settings

	culture    *signals.Signal[Culture]
	editTarget *signals.Signal[string]
	editMode   bool

	runtimeSeq     uint64
	runtimeApplied uint64
	localeSeq      uint64
	localeApplied  uint64
	pendingLocale  string

	assets singleflight.Group

	lifecycle lifecycle
}

// New creates a store initialised from the server-rendered payload.
func New(initial *RuntimePayload, opts Options) (*Store, error) {
	if initial == nil {
		return nil, fmt.Errorf("initial runtime cannot be nil")
	}
	if opts.Emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}
	if opts.Settings == (Settings{}) {
		opts.Settings = DefaultSettings()
	}

	s := &Store{
		state:    normalize(*initial),
		backend:  opts.Backend,
		emitter:  opts.Emitter,
		registry: opts.Registry,
		prefs:    opts.Preferences,
		history:  opts.History,
		settings: opts.Settings,
	}
	s.pendingLocale = s.state.Culture.Locale
	s.culture = signals.NewSignal(s.state.Culture)
	s.editTarget = signals.NewSignal("")
	return s, nil
}

// normalize deep-copies the payload into store-owned maps, never nil.
func normalize(p RuntimePayload) RuntimePayload {
	out := p
	out.Components = make(map[string]ComponentDescriptor, len(p.Components))
	for k, v := range p.Components {
		out.Components[k] = v
	}
	out.Extensions = make(map[string]Extension, len(p.Extensions))
	for k, v := range p.Extensions {
		out.Extensions[k] = v.clone()
	}
	out.Messages = make(Messages, len(p.Messages))
	for k, v := range p.Messages {
		out.Messages[k] = v
	}
	out.Pages = make(map[string]router.Page, len(p.Pages))
	for k, v := range p.Pages {
		out.Pages[k] = clonePage(v)
	}
	out.Query = make(map[string]string, len(p.Query))
	for k, v := range p.Query {
		out.Query[k] = v
	}
	if p.Settings != nil {
		out.Settings = cloneProps(p.Settings)
	}
	return out
}

// Emitter returns the bus the store emits on.
func (s *Store) Emitter() *events.Emitter {
	return s.emitter
}

// Registry returns the component registry, which may be nil.
func (s *Store) Registry() *registry.Registry {
	return s.registry
}

// Production reports whether the runtime runs in production mode.
func (s *Store) Production() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Production
}

// GetExtension returns the extension at treePath. Absence is a valid state,
// not an error. The returned props are a copy.
func (s *Store) GetExtension(treePath string) (Extension, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ext, ok := s.state.Extensions[treePath]
	if !ok {
		return Extension{}, false
	}
	return ext.clone(), true
}

// UpdateExtension replaces or inserts the extension at treePath, then emits
// extension:<treePath>:update.
func (s *Store) UpdateExtension(treePath string, ext Extension) {
	stored := ext.clone()
	s.mu.Lock()
	s.state.Extensions[treePath] = stored
	s.mu.Unlock()

	s.emitter.Emit(events.ExtensionUpdate(treePath), ExtensionChange{Path: treePath, Extension: stored.clone(), Present: true})
}

// RemoveExtension deletes the extension at treePath and emits its update
// event. Removing an absent extension changes nothing and emits nothing.
func (s *Store) RemoveExtension(treePath string) {
	s.mu.Lock()
	_, ok := s.state.Extensions[treePath]
	delete(s.state.Extensions, treePath)
	s.mu.Unlock()

	if ok {
		s.emitter.Emit(events.ExtensionUpdate(treePath), ExtensionChange{Path: treePath})
	}
}

// Component returns the descriptor of a component.
func (s *Store) Component(id string) (ComponentDescriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state.Components[id]
	return d, ok
}

// UpdateComponentAssets merges descriptors additively: known components keep
// their descriptor. It emits extension:*:update once when anything was added.
func (s *Store) UpdateComponentAssets(descriptors map[string]ComponentDescriptor) int {
	s.mu.Lock()
	added := 0
	for id, d := range descriptors {
		if _, ok := s.state.Components[id]; ok {
			continue
		}
		s.state.Components[id] = d
		added++
	}
	s.mu.Unlock()

	if added > 0 {
		s.emitter.Emit(events.ExtensionWildcard, nil)
	}
	return added
}

// Page returns the current page name.
func (s *Store) Page() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Page
}

// PageInfo returns the page declared under name.
func (s *Store) PageInfo(name string) (router.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.Pages[name]
	return clonePage(p), ok
}

// Query returns a copy of the current query parameters.
func (s *Store) Query() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.state.Query))
	for k, v := range s.state.Query {
		out[k] = v
	}
	return out
}

// Messages returns a copy of the active message bundle.
func (s *Store) Messages() Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Messages, len(s.state.Messages))
	for k, v := range s.state.Messages {
		out[k] = v
	}
	return out
}

// Culture returns the signal carrying the active culture. Locale changes
// are published on it after they are applied.
func (s *Store) Culture() *signals.Signal[Culture] {
	return s.culture
}

// Settings returns the settings declared for app in the payload.
func (s *Store) Settings(app string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValue(s.state.Settings[app])
}

// Snapshot returns a deep copy of the whole runtime state.
func (s *Store) Snapshot() RuntimePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return normalize(s.state)
}

// EditExtensionPoint sets the single tree path being edited; "" clears it.
func (s *Store) EditExtensionPoint(treePath string) {
	console.Debug("[store] edit target:", treePath)
	s.editTarget.Set(treePath)
}

// EditTarget returns the signal carrying the tree path being edited.
func (s *Store) EditTarget() *signals.Signal[string] {
	return s.editTarget
}

// EditMode reports whether editable overlays are shown.
func (s *Store) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode && !s.state.Production
}

// SetEditMode turns editable overlays on or off. Production runtimes never
// enter edit mode.
func (s *Store) SetEditMode(on bool) {
	s.mu.Lock()
	if s.state.Production {
		s.mu.Unlock()
		return
	}
	changed := s.editMode != on
	s.editMode = on
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(events.ExtensionWildcard, nil)
	}
}

// ToggleEditMode flips edit mode.
func (s *Store) ToggleEditMode() {
	s.SetEditMode(!s.EditMode())
}

func (s *Store) requireBackend() error {
	if s.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrFetch)
	}
	return nil
}

// logFailure records a collaborator failure unless it was only superseded.
func logFailure(op string, err error) {
	if errors.Is(err, ErrStale) {
		console.Debug("[store]", op+":", err)
		return
	}
	console.Error("[store]", op, "failed:", err)
}
