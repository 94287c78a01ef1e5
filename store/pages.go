package store

import (
	"fmt"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/router"
)

// Navigate resolves opts against the declared pages and pushes the target to
// history. It reports whether the navigation was handled.
func (s *Store) Navigate(opts router.NavigateOptions) (bool, error) {
	if s.history == nil {
		return false, ErrNoHistory
	}
	s.mu.Lock()
	pages := make(map[string]router.Page, len(s.state.Pages))
	for k, v := range s.state.Pages {
		pages[k] = v
	}
	s.mu.Unlock()

	return router.Navigate(s.history, pages, opts)
}

// OnPageChanged applies a history change produced by this runtime. The path
// is mapped to a page name; paths no page handles are handed back to history
// for a full reload. page, query and the page's params change in one
// transition followed by a single extension:*:update.
func (s *Store) OnPageChanged(loc router.Location) {
	if !loc.FromRuntime {
		return
	}

	s.mu.Lock()
	match, ok := router.PageNameFromPath(loc.Path, s.state.Pages)
	if !ok {
		s.mu.Unlock()
		console.Log("[store] no page for", loc.Path+", reloading")
		if s.history != nil {
			s.history.Reload(loc)
		}
		return
	}
	s.state.Page = match.Page
	query := make(map[string]string, len(loc.Query))
	for k := range loc.Query {
		query[k] = loc.Query.Get(k)
	}
	s.state.Query = query
	page := s.state.Pages[match.Page]
	page.Params = match.Params
	s.state.Pages[match.Page] = page
	s.mu.Unlock()

	console.Debug("[store] page changed:", match.Page, fmt.Sprint(match.Params))
	s.emitter.Emit(events.ExtensionWildcard, nil)
}
