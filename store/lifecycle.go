package store

import (
	"context"
	"sync"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
)

type lifecycle struct {
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	subs     []*events.Subscription
	unlisten func()
	started  bool
	closed   bool
}

// Start subscribes the store to the inbound runtime events and to history
// changes. localesChanged is always handled; localesUpdated,
// extensionsUpdated and componentUpdated are development pushes and are only
// handled outside production. Handlers run on their own goroutines bound to
// ctx; Close waits for them.
func (s *Store) Start(ctx context.Context) error {
	lc := &s.lifecycle
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return ErrClosed
	}
	if lc.started {
		return nil
	}
	lc.started = true
	lc.ctx, lc.cancel = context.WithCancel(ctx)

	lc.subs = append(lc.subs, events.Subscribe(s.emitter, events.NewHandler(func(e events.Event) {
		locale, ok := e.Payload.(string)
		if !ok {
			console.Warn("[store] localesChanged without a locale payload:", e.Payload)
			return
		}
		s.goAsync("set locale", func(ctx context.Context) error { return s.SetLocale(ctx, locale) })
	}), events.LocalesChanged))

	if !s.Production() {
		lc.subs = append(lc.subs,
			events.Subscribe(s.emitter, events.NewHandler(func(e events.Event) {
				locales, _ := e.Payload.([]string)
				s.goAsync("locales updated", func(ctx context.Context) error { return s.OnLocalesUpdated(ctx, locales) })
			}), events.LocalesUpdated),
			events.Subscribe(s.emitter, events.NewHandler(func(events.Event) {
				s.goAsync("extensions updated", s.RefreshRuntime)
			}), events.ExtensionsUpdated),
			events.Subscribe(s.emitter, events.NewHandler(func(e events.Event) {
				id, ok := e.Payload.(string)
				if !ok {
					console.Warn("[store] componentUpdated without a component id:", e.Payload)
					return
				}
				s.goAsync("component updated", func(ctx context.Context) error { return s.ReloadComponent(ctx, id) })
			}), events.ComponentUpdated),
		)
	}

	if s.history != nil {
		lc.unlisten = s.history.Listen(s.OnPageChanged)
	}
	console.Debug("[store] started, production:", s.Production())
	return nil
}

// goAsync runs fn on a tracked goroutine. Errors are already logged by the
// operations themselves.
func (s *Store) goAsync(op string, fn func(context.Context) error) {
	lc := &s.lifecycle
	lc.mu.Lock()
	if lc.closed || lc.ctx == nil {
		lc.mu.Unlock()
		return
	}
	ctx := lc.ctx
	lc.wg.Add(1)
	lc.mu.Unlock()

	go func() {
		defer lc.wg.Done()
		if err := fn(ctx); err != nil {
			console.Debug("[store]", op+":", err)
		}
	}()
}

// Close releases the inbound subscriptions, cancels in-flight handlers and
// waits for them to return. It is safe to call more than once.
func (s *Store) Close() error {
	lc := &s.lifecycle
	lc.mu.Lock()
	if lc.closed {
		lc.mu.Unlock()
		return nil
	}
	lc.closed = true
	subs := lc.subs
	lc.subs = nil
	unlisten := lc.unlisten
	lc.unlisten = nil
	cancel := lc.cancel
	lc.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	if unlisten != nil {
		unlisten()
	}
	if cancel != nil {
		cancel()
	}
	lc.wg.Wait()
	return nil
}

// Wait blocks until every handler started so far has returned.
func (s *Store) Wait() {
	s.lifecycle.wg.Wait()
}
