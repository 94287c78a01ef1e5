package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/registry"
)

// FetchComponent makes a component renderable. When another component of the
// same app is already registered only the assets are fetched; otherwise the
// app's messages and the assets are fetched concurrently and the messages
// are merged into the active bundle. Concurrent calls for the same id share
// one asset fetch. It emits component:<id>:update on success.
func (s *Store) FetchComponent(ctx context.Context, componentID string) error {
	if err := s.requireBackend(); err != nil {
		return err
	}
	d, ok := s.Component(componentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, componentID)
	}

	app := registry.App(componentID)
	fetchMessages := s.registry == nil || !s.registry.HasApp(app)

	s.mu.Lock()
	req := MessagesRequest{Page: s.state.Page, Production: s.state.Production, Locale: s.state.Culture.Locale, App: app}
	s.mu.Unlock()

	var messages Messages
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetchAssets(gctx, componentID, d)
	})
	if fetchMessages {
		g.Go(func() error {
			m, err := retry(gctx, s.settings, "fetch messages", func(ctx context.Context) (Messages, error) {
				return s.backend.FetchMessages(ctx, req)
			})
			messages = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		err = fmt.Errorf("%w: component %s: %w", ErrFetch, componentID, err)
		logFailure("fetch component", err)
		return err
	}

	if len(messages) > 0 {
		s.mu.Lock()
		// A locale switch that landed meanwhile owns the bundle.
		if s.state.Culture.Locale == req.Locale {
			for k, v := range messages {
				s.state.Messages[k] = v
			}
		}
		s.mu.Unlock()
	}

	s.emitter.Emit(events.ComponentUpdate(componentID), componentID)
	return nil
}

// ReloadComponent refetches the assets of a component that changed on the
// server and emits component:<id>:update so its resolvers re-render.
func (s *Store) ReloadComponent(ctx context.Context, componentID string) error {
	if err := s.requireBackend(); err != nil {
		return err
	}
	d, ok := s.Component(componentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, componentID)
	}
	if err := s.fetchAssets(ctx, componentID, d); err != nil {
		err = fmt.Errorf("%w: reload %s: %w", ErrFetch, componentID, err)
		logFailure("reload component", err)
		return err
	}
	console.Debug("[store] component reloaded:", componentID)
	s.emitter.Emit(events.ComponentUpdate(componentID), componentID)
	return nil
}

// PrefetchPage fetches the component of the page's extension ahead of
// navigation.
func (s *Store) PrefetchPage(ctx context.Context, page string) error {
	ext, ok := s.GetExtension(page)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return s.FetchComponent(ctx, ext.Component)
}

func (s *Store) fetchAssets(ctx context.Context, componentID string, d ComponentDescriptor) error {
	ch := s.assets.DoChan(componentID, func() (any, error) {
		// Detached from any single caller so one cancellation does not fail
		// the other waiters; each attempt is still bounded by Settings.Timeout.
		return retry(context.WithoutCancel(ctx), s.settings, "fetch assets", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.backend.FetchAssets(ctx, componentID, d)
		})
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}
