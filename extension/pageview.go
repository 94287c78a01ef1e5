package extension

import (
	"fmt"
	"sync"

	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/treepath"
	"github.com/vcrobe/nojs-render/vdom"
)

// ProviderID is the extension mounted under a page root that wraps the
// whole page outside production, e.g. an editor provider.
const ProviderID = "__provider"

// NotFoundID is the extension rendered for pages without an extension.
const NotFoundID = "404"

// PageView renders the current page as nested extension points, one per
// page name segment: "store/product" renders "store" with "store/product"
// as its children. It re-renders when navigation changes the page, its
// params or the query.
type PageView struct {
	runtime.ComponentBase
	Env *Env

	mu       sync.Mutex
	rendered string
	sub      *events.Subscription
}

// OnInit follows navigation.
func (pv *PageView) OnInit() {
	pv.sub = events.Subscribe(pv.Env.Store.Emitter(), events.NewHandler(pv.onUpdate), events.ExtensionWildcard)
}

// OnDestroy implements runtime.Cleaner.
func (pv *PageView) OnDestroy() {
	pv.sub.Close()
}

// ApplyProps implements runtime.PropUpdater.
func (pv *PageView) ApplyProps(next runtime.Component) {
	pv.Env = next.(*PageView).Env
}

func (pv *PageView) onUpdate(events.Event) {
	pv.mu.Lock()
	changed := pv.rendered != location(pv.Env.Store)
	pv.mu.Unlock()
	if changed {
		pv.StateHasChanged()
	}
}

// Render implements runtime.Component.
func (pv *PageView) Render(r runtime.Renderer) *vdom.VNode {
	s := pv.Env.Store
	page := s.Page()
	pv.mu.Lock()
	pv.rendered = location(s)
	pv.mu.Unlock()

	if _, ok := s.GetExtension(page); !ok {
		return r.RenderChild("page#404", &NotFound{Env: pv.Env})
	}

	segments := treepath.Segments(page)
	var inner []*vdom.VNode
	for i := len(segments) - 1; i >= 0; i-- {
		node := Render(r, pv.Env, segments[i], treepath.Join(segments[:i]...), nil, inner...)
		inner = []*vdom.VNode{node}
	}

	root := treepath.Root(page)
	if !s.Production() {
		if _, ok := s.GetExtension(treepath.Mount(ProviderID, root)); ok {
			inner = []*vdom.VNode{Render(r, pv.Env, ProviderID, root, nil, inner...)}
		}
	}

	children := inner
	if info, ok := s.PageInfo(page); ok && info.Title != "" {
		children = append([]*vdom.VNode{vdom.NewVNode("title", nil, nil, info.Title)}, inner...)
	}
	return vdom.Div(map[string]any{"class": "PageView", "data-page": page}, children...)
}

// location identifies the page and the props it hands down.
func location(s *store.Store) string {
	return fmt.Sprint(s.Page(), PageProps(s))
}

// NotFound renders the 404 extension, or a default message when the runtime
// has none.
type NotFound struct {
	runtime.ComponentBase
	Env *Env
}

// ApplyProps implements runtime.PropUpdater.
func (nf *NotFound) ApplyProps(next runtime.Component) {
	nf.Env = next.(*NotFound).Env
}

// Render implements runtime.Component.
func (nf *NotFound) Render(r runtime.Renderer) *vdom.VNode {
	if _, ok := nf.Env.Store.GetExtension(NotFoundID); ok {
		return Render(r, nf.Env, NotFoundID, "", nil)
	}
	return vdom.Div(map[string]any{"class": "NotFound"}, vdom.Heading(1, "Page not found", nil))
}
