package store

import (
	"context"
	"fmt"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
)

// RefreshRuntime fetches a fresh runtime payload and reconciles it into the
// store: keys missing from the new payload are deleted and all others are
// overwritten. Component descriptors only grow. Messages are taken only when
// they were fetched for the locale that is still active. On success it emits
// extension:*:update once.
//
// On failure the store keeps its last applied state and the error wraps
// ErrFetch. A response superseded by a newer refresh is dropped with
// ErrStale.
func (s *Store) RefreshRuntime(ctx context.Context) error {
	if err := s.requireBackend(); err != nil {
		return err
	}

	s.mu.Lock()
	s.runtimeSeq++
	seq := s.runtimeSeq
	req := RuntimeRequest{Page: s.state.Page, Production: s.state.Production, Locale: s.state.Culture.Locale}
	s.mu.Unlock()

	payload, err := retry(ctx, s.settings, "fetch runtime", func(ctx context.Context) (*RuntimePayload, error) {
		return s.backend.FetchRuntime(ctx, req)
	})
	if err == nil && payload == nil {
		err = fmt.Errorf("fetch runtime: empty payload")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		logFailure("refresh runtime", err)
		return err
	}

	s.mu.Lock()
	if seq < s.runtimeApplied {
		applied := s.runtimeApplied
		s.mu.Unlock()
		return fmt.Errorf("%w: runtime seq %d < applied %d", ErrStale, seq, applied)
	}
	s.reconcileLocked(payload, req.Locale)
	s.runtimeApplied = seq
	s.mu.Unlock()

	console.Debug("[store] runtime refreshed, seq:", seq)
	s.emitter.Emit(events.ExtensionWildcard, nil)
	return nil
}

// reconcileLocked merges payload into the state. s.mu must be held.
func (s *Store) reconcileLocked(payload *RuntimePayload, requestedLocale string) {
	fresh := normalize(*payload)

	for id, d := range fresh.Components {
		if _, ok := s.state.Components[id]; !ok {
			s.state.Components[id] = d
		}
	}

	reconcile(s.state.Extensions, fresh.Extensions)

	// Client-resolved params are not part of the payload; keep them.
	for name, page := range fresh.Pages {
		if old, ok := s.state.Pages[name]; ok && page.Params == nil {
			page.Params = old.Params
			fresh.Pages[name] = page
		}
	}
	reconcile(s.state.Pages, fresh.Pages)

	if requestedLocale == s.state.Culture.Locale && payload.Messages != nil {
		reconcile(s.state.Messages, fresh.Messages)
	}
	if payload.Settings != nil {
		s.state.Settings = fresh.Settings
	}
}

// reconcile makes dst equal to src in place: keys absent from src are
// deleted, every key of src is written.
func reconcile[K comparable, V any](dst, src map[K]V) {
	for k := range dst {
		if _, ok := src[k]; !ok {
			delete(dst, k)
		}
	}
	for k, v := range src {
		dst[k] = v
	}
}

