package appcomponents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-render/appcomponents"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/testcomponents"
	"github.com/vcrobe/nojs-render/vdom"
)

func newEnv(t *testing.T, exts map[string]store.Extension, history router.History) *extension.Env {
	t.Helper()
	reg := registry.New()
	appcomponents.Register(reg)
	s, err := store.New(&store.RuntimePayload{
		Extensions: exts,
		Messages:   store.Messages{"store.greeting": "Bonjour"},
		Page:       "store",
		Pages: map[string]router.Page{
			"store":         {Path: "/"},
			"store/product": {Path: "/p/:slug"},
		},
		Production: true,
	}, store.Options{Emitter: events.NewEmitter(), Registry: reg, History: history})
	require.NoError(t, err)
	return &extension.Env{Store: s}
}

// TestFlex_LaysOutNestedExtensionPoints verifies a flex extension mounts
// its leaves below its own tree path.
func TestFlex_LaysOutNestedExtensionPoints(t *testing.T) {
	// Arrange
	env := newEnv(t, map[string]store.Extension{
		"store":       {Component: appcomponents.FlexID, Props: store.Props{"layout": []any{"title", "body"}}},
		"store/title": {Component: appcomponents.HeadingID, Props: store.Props{"text": "Shop", "level": float64(2)}},
		"store/body":  {Component: appcomponents.TextID, Props: store.Props{"text": "Hello", "message": "store.greeting"}},
	}, nil)
	r := testcomponents.NewTestRenderer(&extension.PageView{Env: env}, nil)

	// Act
	r.RenderRoot()

	// Assert
	assert.Contains(t, r.HTML(), `<div class="flex flex-grow-1 flex-column"><div><h2>Shop</h2></div><div><p>Bonjour</p></div></div>`)
}

// TestFlex_InvalidLayoutRendersPlaceholder verifies undecodable layouts do
// not break the page.
func TestFlex_InvalidLayoutRendersPlaceholder(t *testing.T) {
	env := newEnv(t, map[string]store.Extension{
		"store": {Component: appcomponents.FlexID, Props: store.Props{"layout": 42.0}},
	}, nil)
	r := testcomponents.NewTestRenderer(&extension.PageView{Env: env}, nil)

	r.RenderRoot()

	assert.Contains(t, r.HTML(), `class="Layout--error"`)
}

// TestText_FallsBackToText verifies a missing message id keeps the text prop.
func TestText_FallsBackToText(t *testing.T) {
	env := newEnv(t, map[string]store.Extension{
		"store": {Component: appcomponents.TextID, Props: store.Props{"text": "Hello", "message": "missing"}},
	}, nil)
	r := testcomponents.NewTestRenderer(&extension.PageView{Env: env}, nil)

	r.RenderRoot()

	assert.Contains(t, r.HTML(), "<p>Hello</p>")
}

// TestCounter_IncrementKeepsState verifies the counter re-renders with its
// own state.
func TestCounter_IncrementKeepsState(t *testing.T) {
	// Arrange
	c := &appcomponents.Counter{Start: 3}
	r := testcomponents.NewTestRenderer(c, nil)
	r.RenderRoot()

	// Act
	c.Increment()

	// Assert
	value := r.GetCurrentVDOM().Find(func(n *vdom.VNode) bool { return n.Attr("class") == "Counter-value" })
	require.NotNil(t, value)
	assert.Equal(t, "4", value.Content)
}

// TestLink_NavigatesToPage verifies the href and the pushed location.
func TestLink_NavigatesToPage(t *testing.T) {
	// Arrange
	history := router.NewMemoryHistory(router.Location{Path: "/"})
	env := newEnv(t, map[string]store.Extension{
		"store": {Component: appcomponents.LinkID, Props: store.Props{
			"page": "store/product", "params": map[string]any{"slug": "shoe"}, "text": "Shoe",
		}},
	}, history)
	r := testcomponents.NewTestRenderer(&extension.PageView{Env: env}, nil)
	r.RenderRoot()
	link := r.GetCurrentVDOM().Find(func(n *vdom.VNode) bool { return n.Tag == "a" })
	require.NotNil(t, link)

	// Act
	link.OnClick()

	// Assert
	assert.Equal(t, "/p/shoe", link.Attr("href"))
	assert.Equal(t, "/p/shoe", history.Current().Path)
}
