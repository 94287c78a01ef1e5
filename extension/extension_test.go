package extension_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/testcomponents"
	"github.com/vcrobe/nojs-render/vdom"
)

// label renders props["text"] in a span.
type label struct {
	runtime.ComponentBase
	props store.Props
}

func (l *label) ApplyProps(next runtime.Component) { l.props = next.(*label).props }

func (l *label) Render(runtime.Renderer) *vdom.VNode {
	return vdom.Span(fmt.Sprint(l.props["text"]), nil)
}

// wrapper renders its children inside a section.
type wrapper struct {
	runtime.ComponentBase
	children []*vdom.VNode
}

func (w *wrapper) ApplyProps(next runtime.Component) { w.children = next.(*wrapper).children }

func (w *wrapper) Render(runtime.Renderer) *vdom.VNode {
	return vdom.NewVNode("section", nil, w.children, "")
}

type broken struct{ runtime.ComponentBase }

func (b *broken) Render(runtime.Renderer) *vdom.VNode { panic("boom") }

// host renders one extension point per id under "root".
type host struct {
	runtime.ComponentBase
	env   *extension.Env
	ids   []string
	props map[string]store.Props
}

func (h *host) Render(r runtime.Renderer) *vdom.VNode {
	nodes := make([]*vdom.VNode, 0, len(h.ids))
	for _, id := range h.ids {
		nodes = append(nodes, extension.Render(r, h.env, id, "root", h.props[id]))
	}
	return vdom.Div(nil, nodes...)
}

type fixture struct {
	store    *store.Store
	emitter  *events.Emitter
	registry *registry.Registry
	env      *extension.Env
	got      map[string]store.Props
}

func newFixture(t *testing.T, production bool, exts map[string]store.Extension) *fixture {
	t.Helper()
	f := &fixture{emitter: events.NewEmitter(), registry: registry.New(), got: map[string]store.Props{}}
	f.registry.Register("shop/label", func(p registry.Props, _ []*vdom.VNode) runtime.Component {
		f.got[fmt.Sprint(p["text"])] = p
		return &label{props: p}
	}, registry.WithSchema(registry.Schema{Title: "Label"}))
	f.registry.Register("shop/wrapper", func(_ registry.Props, c []*vdom.VNode) runtime.Component {
		return &wrapper{children: c}
	})
	f.registry.Register("shop/broken", func(registry.Props, []*vdom.VNode) runtime.Component { return &broken{} })

	s, err := store.New(&store.RuntimePayload{
		Extensions: exts,
		Page:       "store/product",
		Pages:      map[string]router.Page{"store/product": {Path: "/p/:slug", Title: "Product", Params: map[string]string{"slug": "shoe"}}},
		Query:      map[string]string{"color": "red"},
		Production: production,
	}, store.Options{Emitter: f.emitter, Registry: f.registry})
	require.NoError(t, err)
	f.store = s
	f.env = &extension.Env{Store: s}
	return f
}

func (f *fixture) mount(ids ...string) (*host, *testcomponents.TestRenderer) {
	h := &host{env: f.env, ids: ids, props: map[string]store.Props{}}
	r := testcomponents.NewTestRenderer(h, nil)
	r.RenderRoot()
	return h, r
}

// TestExtensionPoint_MergedPropsPrecedence verifies explicit props win over
// extension props, which win over page params and query.
func TestExtensionPoint_MergedPropsPrecedence(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "stored", "params": "shadowed", "size": "m"}},
	})
	h := &host{env: f.env, ids: []string{"a"}, props: map[string]store.Props{"a": {"text": "explicit"}}}
	r := testcomponents.NewTestRenderer(h, nil)

	// Act
	r.RenderRoot()

	// Assert
	got := f.got["explicit"]
	require.NotNil(t, got)
	assert.Equal(t, "m", got["size"])
	assert.Equal(t, "shadowed", got["params"])
	assert.Equal(t, map[string]string{"color": "red"}, got["query"])
	assert.Equal(t, "<div><span>explicit</span></div>", r.HTML())
}

// TestMergeProps_PageLayer verifies the lowest layer carries params and query.
func TestMergeProps_PageLayer(t *testing.T) {
	f := newFixture(t, false, nil)

	merged := extension.MergeProps(extension.PageProps(f.store), nil, store.Props{"x": 1})

	assert.Equal(t, map[string]string{"slug": "shoe"}, merged["params"])
	assert.Equal(t, map[string]string{"color": "red"}, merged["query"])
	assert.Equal(t, 1, merged["x"])
}

// TestExtensionPoint_EmptyProductionRendersNothing verifies no editing
// affordance reaches production pages.
func TestExtensionPoint_EmptyProductionRendersNothing(t *testing.T) {
	f := newFixture(t, true, nil)
	f.env.Catalog = &testcomponents.Catalog{}

	_, r := f.mount("missing")

	assert.Equal(t, "<div></div>", r.HTML())
}

// TestExtensionPoint_EmptyDevelopmentRendersAffordance verifies empty slots
// outside production.
func TestExtensionPoint_EmptyDevelopmentRendersAffordance(t *testing.T) {
	// Arrange
	f := newFixture(t, false, nil)

	// Act
	_, bare := f.mount("missing")
	f.env.Catalog = &testcomponents.Catalog{}
	_, picker := f.mount("missing")

	// Assert
	assert.Equal(t, `<div><div class="ExtensionPoint--empty" data-tree-path="root/missing"></div></div>`, bare.HTML())
	assert.Contains(t, picker.HTML(), `<button>Add component</button>`)
}

// TestExtensionPoint_ComponentNotFound verifies unknown components render
// nothing without breaking siblings.
func TestExtensionPoint_ComponentNotFound(t *testing.T) {
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/ghost"},
		"root/b": {Component: "shop/label", Props: store.Props{"text": "B"}},
	})

	_, r := f.mount("a", "b")

	assert.Equal(t, "<div><span>B</span></div>", r.HTML())
}

// TestExtensionPoint_ErrorBoundary verifies a panicking component is
// replaced by the error panel and its siblings still render.
func TestExtensionPoint_ErrorBoundary(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/broken"},
		"root/b": {Component: "shop/label", Props: store.Props{"text": "B"}},
	})

	// Act
	_, r := f.mount("a", "b")

	// Assert
	tree := r.GetCurrentVDOM()
	panel := tree.Find(func(n *vdom.VNode) bool { return n.Attr("class") == "ExtensionPoint--error" })
	require.NotNil(t, panel)
	assert.Equal(t, "root/a", panel.Attr("data-tree-path"))
	assert.Contains(t, r.HTML(), "<span>B</span>")
	assert.Contains(t, r.HTML(), "Show details")
}

// TestExtensionPoint_ScopedUpdate verifies an update re-renders the
// affected extension point only.
func TestExtensionPoint_ScopedUpdate(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
		"root/b": {Component: "shop/label", Props: store.Props{"text": "B"}},
	})
	_, r := f.mount("a", "b")
	rootRenders := r.RenderCount(runtime.RootKey)
	bRenders := r.RenderCount(extension.Key("root/b"))

	// Act
	f.store.UpdateExtension("root/a", store.Extension{Component: "shop/label", Props: store.Props{"text": "A2"}})

	// Assert
	assert.Equal(t, "<div><span>A2</span><span>B</span></div>", r.HTML())
	assert.Equal(t, rootRenders, r.RenderCount(runtime.RootKey))
	assert.Equal(t, bRenders, r.RenderCount(extension.Key("root/b")))
}

// TestExtensionPoint_EmptyToResolved verifies an empty slot picks up a new
// extension bound at its tree path.
func TestExtensionPoint_EmptyToResolved(t *testing.T) {
	f := newFixture(t, false, nil)
	_, r := f.mount("a")

	f.store.UpdateExtension("root/a", store.Extension{Component: "shop/label", Props: store.Props{"text": "new"}})

	assert.Equal(t, "<div><span>new</span></div>", r.HTML())
}

// TestExtensionPoint_SubscriptionsReleasedOnUnmount verifies no handler
// outlives its instance.
func TestExtensionPoint_SubscriptionsReleasedOnUnmount(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
	})
	h, r := f.mount("a")
	require.Equal(t, 1, f.emitter.ListenerCount(events.ExtensionUpdate("root/a")))
	require.Equal(t, 1, f.emitter.ListenerCount(events.ComponentUpdate("shop/label")))
	require.Equal(t, 1, f.emitter.ListenerCount(events.ExtensionWildcard))

	// Act
	h.ids = nil
	r.RenderRoot()
	mounts := r.Mounts()
	f.emitter.Emit(events.ExtensionUpdate("root/a"), nil)
	f.emitter.Emit(events.ExtensionWildcard, nil)

	// Assert
	assert.Equal(t, 0, f.emitter.ListenerCount(events.ExtensionUpdate("root/a")))
	assert.Equal(t, 0, f.emitter.ListenerCount(events.ComponentUpdate("shop/label")))
	assert.Equal(t, 0, f.emitter.ListenerCount(events.ExtensionWildcard))
	assert.Equal(t, mounts, r.Mounts())
	assert.False(t, r.Mounted(extension.Key("root/a")))
}

// TestExtensionPoint_ComponentChangeResubscribes verifies the component
// subscription follows the resolved component.
func TestExtensionPoint_ComponentChangeResubscribes(t *testing.T) {
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
	})
	f.mount("a")

	f.store.UpdateExtension("root/a", store.Extension{Component: "shop/wrapper"})

	assert.Equal(t, 0, f.emitter.ListenerCount(events.ComponentUpdate("shop/label")))
	assert.Equal(t, 1, f.emitter.ListenerCount(events.ComponentUpdate("shop/wrapper")))
	assert.Equal(t, 1, f.emitter.ListenerCount(events.ExtensionUpdate("root/a")))
}

// TestExtensionPoint_ProductionHasNoSubscriptions verifies production
// extension points are fixed once resolved.
func TestExtensionPoint_ProductionHasNoSubscriptions(t *testing.T) {
	// Arrange
	f := newFixture(t, true, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
	})
	_, r := f.mount("a")

	// Act
	f.store.UpdateExtension("root/a", store.Extension{Component: "shop/label", Props: store.Props{"text": "A2"}})
	r.RenderRoot()

	// Assert
	assert.Empty(t, f.emitter.Names())
	assert.Equal(t, "<div><span>A</span></div>", r.HTML())
}

// TestExtensionPoint_FillingEmptyKeepsSiblings verifies binding an empty
// extension point leaves its neighbours mounted and subscribed.
func TestExtensionPoint_FillingEmptyKeepsSiblings(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/b": {Component: "shop/label", Props: store.Props{"text": "B"}},
	})
	_, r := f.mount("a", "b")
	require.Equal(t, 1, f.emitter.ListenerCount(events.ExtensionUpdate("root/b")))

	// Act
	f.store.UpdateExtension("root/a", store.Extension{Component: "shop/label", Props: store.Props{"text": "A"}})
	f.store.UpdateExtension("root/b", store.Extension{Component: "shop/label", Props: store.Props{"text": "B2"}})

	// Assert
	assert.True(t, r.Mounted(runtime.RootKey))
	assert.True(t, r.Mounted(extension.Key("root/b")))
	assert.Equal(t, 1, f.emitter.ListenerCount(events.ExtensionUpdate("root/b")))
	assert.Equal(t, "<div><span>A</span><span>B2</span></div>", r.HTML())
}

// TestExtensionPoint_ProductionExplicitPropsFollowParent verifies a fixed
// production extension still takes the props its parent passes now.
func TestExtensionPoint_ProductionExplicitPropsFollowParent(t *testing.T) {
	// Arrange
	f := newFixture(t, true, map[string]store.Extension{
		"root/a": {Component: "shop/label"},
	})
	h := &host{env: f.env, ids: []string{"a"}, props: map[string]store.Props{"a": {"text": "one"}}}
	r := testcomponents.NewTestRenderer(h, nil)
	r.RenderRoot()

	// Act
	h.props["a"] = store.Props{"text": "two"}
	r.RenderRoot()

	// Assert
	assert.Equal(t, "<div><span>two</span></div>", r.HTML())
}

// fakeEditor serves drafts and records opens.
type fakeEditor struct {
	drafts map[string]store.Props
	opened []string
	err    error
}

func (e *fakeEditor) Draft(treePath string) (store.Props, bool) {
	p, ok := e.drafts[treePath]
	return p, ok
}

func (e *fakeEditor) Open(treePath string) error {
	e.opened = append(e.opened, treePath)
	return e.err
}

// TestExtensionPoint_EditOverride verifies a draft supersedes the merged
// props and edit mode adds an overlay that opens the editor.
func TestExtensionPoint_EditOverride(t *testing.T) {
	// Arrange
	f := newFixture(t, false, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
	})
	ed := &fakeEditor{drafts: map[string]store.Props{"root/a": {"text": "draft"}}}
	f.env.Editor = ed
	f.store.SetEditMode(true)

	// Act
	_, r := f.mount("a")
	overlay := r.GetCurrentVDOM().Find(func(n *vdom.VNode) bool { return n.Attr("data-tree-path") == "root/a" })
	require.NotNil(t, overlay)
	require.NotNil(t, overlay.OnClick)
	overlay.OnClick()

	// Assert
	assert.Equal(t, `<div><div class="ExtensionPoint--editable ExtensionPoint--editing" data-tree-path="root/a"><span>draft</span></div></div>`, r.HTML())
	assert.Equal(t, []string{"root/a"}, ed.opened)
	_, hasParams := f.got["draft"]["params"]
	assert.False(t, hasParams, "drafts replace the merged props")
}

// TestExtensionPoint_NoOverlayWithoutSchema verifies only editable
// components get the overlay.
func TestExtensionPoint_NoOverlayWithoutSchema(t *testing.T) {
	f := newFixture(t, false, map[string]store.Extension{"root/a": {Component: "shop/wrapper"}})
	f.store.SetEditMode(true)

	_, r := f.mount("a")

	assert.Equal(t, "<div><section></section></div>", r.HTML())
}

// TestEmptySlot_SelectBindsComponent verifies the picker flow: load, filter,
// select.
func TestEmptySlot_SelectBindsComponent(t *testing.T) {
	// Arrange
	f := newFixture(t, false, nil)
	f.env.Catalog = &testcomponents.Catalog{Components: []store.AvailableComponent{
		{Name: "shop/label", Assets: []string{"label.js"}},
		{Name: "shop/wrapper", Assets: []string{"wrapper.js"}},
	}}
	slot := &extension.EmptySlot{Env: f.env, TreePath: "root/a"}

	// Act
	require.NoError(t, slot.Load(t.Context()))
	slot.Filter("LAB")
	visible := slot.Visible()
	err := slot.Select("shop/label")

	// Assert
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "shop/label", visible[0].Name)
	ext, ok := f.store.GetExtension("root/a")
	require.True(t, ok)
	assert.Equal(t, "shop/label", ext.Component)
	d, ok := f.store.Component("shop/label")
	require.True(t, ok)
	assert.Equal(t, []string{"label.js"}, d.Assets)
	assert.ErrorIs(t, slot.Select("shop/nope"), store.ErrUnknownComponent)
}

// TestEmptySlot_SearchInputFilters verifies typing in the picker search box
// narrows the rendered options.
func TestEmptySlot_SearchInputFilters(t *testing.T) {
	// Arrange
	f := newFixture(t, false, nil)
	f.env.Catalog = &testcomponents.Catalog{Components: []store.AvailableComponent{
		{Name: "shop/label"},
		{Name: "shop/wrapper"},
	}}
	slot := &extension.EmptySlot{Env: f.env, TreePath: "root/a"}
	r := testcomponents.NewTestRenderer(slot, nil)
	r.RenderRoot()
	slot.Open()
	require.Eventually(t, func() bool {
		return strings.Contains(r.HTML(), "shop/wrapper") && strings.Contains(r.HTML(), "shop/label")
	}, time.Second, 5*time.Millisecond)
	search := r.GetCurrentVDOM().Find(func(n *vdom.VNode) bool { return n.Attr("class") == "EmptySlot-search" })
	require.NotNil(t, search)
	require.NotNil(t, search.OnInput)

	// Act
	search.OnInput("wrap")

	// Assert
	assert.Contains(t, r.HTML(), "shop/wrapper")
	assert.NotContains(t, r.HTML(), "shop/label")
	assert.Contains(t, r.HTML(), `value="wrap"`)
}

// TestEmptySlot_LoadFailure verifies catalog errors are reported.
func TestEmptySlot_LoadFailure(t *testing.T) {
	f := newFixture(t, false, nil)
	f.env.Catalog = &testcomponents.Catalog{Err: errors.New("offline")}
	slot := &extension.EmptySlot{Env: f.env, TreePath: "root/a"}

	assert.Error(t, slot.Load(t.Context()))
	assert.Empty(t, slot.Visible())
}
