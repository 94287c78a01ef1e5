package server

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/vcrobe/nojs-render/store"
)

// SiteFile is the JSON shape of a site definition on disk.
type SiteFile struct {
	Runtime store.RuntimePayload `json:"runtime"`
	// Messages maps locale -> app -> bundle.
	Messages  map[string]map[string]store.Messages `json:"messages,omitempty"`
	Available []store.AvailableComponent          `json:"available,omitempty"`
	// Assets maps an asset path to its content.
	Assets map[string]string `json:"assets,omitempty"`
}

// Site is the mutable content a dev server serves. It is safe for
// concurrent use.
type Site struct {
	mu        sync.Mutex
	runtime   store.RuntimePayload
	messages  map[string]map[string]store.Messages
	available []store.AvailableComponent
	assets    map[string]string
}

// NewSite creates a site from a decoded definition.
func NewSite(f SiteFile) *Site {
	s := &Site{
		runtime:   f.Runtime,
		messages:  f.Messages,
		available: f.Available,
		assets:    f.Assets,
	}
	if s.runtime.Extensions == nil {
		s.runtime.Extensions = map[string]store.Extension{}
	}
	if s.messages == nil {
		s.messages = map[string]map[string]store.Messages{}
	}
	return s
}

// LoadSite reads a site definition. A file holding a bare runtime payload
// (no "runtime" key) is accepted too.
func LoadSite(path string) (*Site, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site %s: %w", path, err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("decode site %s: %w", path, err)
	}
	var f SiteFile
	if _, ok := top["runtime"]; ok {
		err = json.Unmarshal(b, &f)
	} else {
		err = json.Unmarshal(b, &f.Runtime)
	}
	if err != nil {
		return nil, fmt.Errorf("decode site %s: %w", path, err)
	}
	return NewSite(f), nil
}

// Runtime returns a deep copy of the runtime payload.
func (s *Site) Runtime() (store.RuntimePayload, error) {
	s.mu.Lock()
	b, err := json.Marshal(s.runtime)
	s.mu.Unlock()
	if err != nil {
		return store.RuntimePayload{}, fmt.Errorf("copy runtime: %w", err)
	}
	var out store.RuntimePayload
	if err := json.Unmarshal(b, &out); err != nil {
		return store.RuntimePayload{}, fmt.Errorf("copy runtime: %w", err)
	}
	return out, nil
}

// HasComponent reports whether the runtime declares id.
func (s *Site) HasComponent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runtime.Components[id]
	return ok
}

// SetExtension stores ext at treePath.
func (s *Site) SetExtension(treePath string, ext store.Extension) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime.Extensions[treePath] = ext
}

// Messages returns the bundle of app in locale, or every app's bundle
// merged when app is "". The runtime's own messages are the base of the
// default locale.
func (s *Site) Messages(locale, app string) (store.Messages, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps, ok := s.messages[locale]
	if app != "" {
		m, ok := apps[app]
		return maps.Clone(m), ok
	}
	out := store.Messages{}
	if locale == s.runtime.Culture.Locale {
		maps.Copy(out, s.runtime.Messages)
		ok = true
	}
	for _, name := range slices.Sorted(maps.Keys(apps)) {
		maps.Copy(out, apps[name])
	}
	return out, ok
}

// SetMessages replaces the bundle of app in locale.
func (s *Site) SetMessages(locale, app string, m store.Messages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.messages[locale] == nil {
		s.messages[locale] = map[string]store.Messages{}
	}
	s.messages[locale][app] = maps.Clone(m)
}

// Locales lists the locales with messages, the runtime culture first.
func (s *Site) Locales() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	if s.runtime.Culture.Locale != "" {
		out = append(out, s.runtime.Culture.Locale)
	}
	for _, l := range slices.Sorted(maps.Keys(s.messages)) {
		if l != s.runtime.Culture.Locale {
			out = append(out, l)
		}
	}
	return out
}

// Available lists the components offered to empty slots. Without an
// explicit list every declared component is offered.
func (s *Site) Available() []store.AvailableComponent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.available) > 0 {
		return slices.Clone(s.available)
	}
	out := make([]store.AvailableComponent, 0, len(s.runtime.Components))
	for _, id := range slices.Sorted(maps.Keys(s.runtime.Components)) {
		d := s.runtime.Components[id]
		out = append(out, store.AvailableComponent{Name: id, Assets: d.Assets, Dependencies: d.Dependencies})
	}
	return out
}

// Asset returns the content stored for path.
func (s *Site) Asset(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[path]
	return a, ok
}
