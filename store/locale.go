package store

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/language"

	"github.com/vcrobe/nojs-render/console"
)

// CanonicalLocale validates locale as a BCP 47 tag and returns its canonical
// form ("pt-br" becomes "pt-BR").
func CanonicalLocale(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLocale, locale, err)
	}
	return tag.String(), nil
}

// SetLocale switches the active locale. When locale differs from the most
// recently requested one it fetches the locale's messages and applies
// culture.locale and messages in one transition, persists the choice and
// publishes the new culture on the Culture signal.
//
// Overlapping calls resolve to the last request: a response for an older
// request that arrives after a newer one was applied is dropped with
// ErrStale. On failure the state is unchanged.
func (s *Store) SetLocale(ctx context.Context, locale string) error {
	canonical, err := CanonicalLocale(locale)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if canonical == s.pendingLocale {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.loadLocale(ctx, canonical, false)
}

// OnLocalesUpdated refetches messages, bypassing caches, when the active
// (or pending) locale is one of locales.
func (s *Store) OnLocalesUpdated(ctx context.Context, locales []string) error {
	s.mu.Lock()
	target := s.pendingLocale
	s.mu.Unlock()

	if !slices.Contains(locales, target) {
		return nil
	}
	return s.loadLocale(ctx, target, true)
}

func (s *Store) loadLocale(ctx context.Context, locale string, refresh bool) error {
	if err := s.requireBackend(); err != nil {
		return err
	}

	s.mu.Lock()
	s.localeSeq++
	seq := s.localeSeq
	s.pendingLocale = locale
	req := MessagesRequest{Page: s.state.Page, Production: s.state.Production, Locale: locale, Refresh: refresh}
	s.mu.Unlock()

	messages, err := retry(ctx, s.settings, "fetch messages", func(ctx context.Context) (Messages, error) {
		return s.backend.FetchMessages(ctx, req)
	})
	if err != nil {
		s.mu.Lock()
		if seq == s.localeSeq {
			// The failed request was the latest; fall back to what is applied.
			s.pendingLocale = s.state.Culture.Locale
		}
		s.mu.Unlock()
		err = fmt.Errorf("%w: messages for %s: %w", ErrFetch, locale, err)
		logFailure("set locale", err)
		return err
	}

	s.mu.Lock()
	if seq < s.localeApplied {
		applied := s.localeApplied
		s.mu.Unlock()
		return fmt.Errorf("%w: locale seq %d < applied %d", ErrStale, seq, applied)
	}
	changed := s.state.Culture.Locale != locale
	s.state.Culture.Locale = locale
	fresh := make(Messages, len(messages))
	for k, v := range messages {
		fresh[k] = v
	}
	reconcile(s.state.Messages, fresh)
	s.localeApplied = seq
	culture := s.state.Culture
	s.mu.Unlock()

	if changed && s.prefs != nil {
		if err := s.prefs.SaveLocale(ctx, locale); err != nil {
			console.Warn("[store] could not persist locale", locale+":", err)
		}
	}
	console.Debug("[store] locale applied:", locale, "seq:", seq)
	s.culture.Set(culture)
	return nil
}
