package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRenderHTML_ElementsAndAttributes verifies markup, stable attribute order
// and that click handlers never reach the output.
func TestRenderHTML_ElementsAndAttributes(t *testing.T) {
	// Arrange
	tree := Div(map[string]any{"id": "root", "class": "flex", "onClick": func() {}},
		Paragraph("Hello <world>", nil),
		InputText(map[string]any{"disabled": true}),
	)

	// Act
	out, err := HTMLString(tree)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, `<div class="flex" id="root"><p>Hello &lt;world&gt;</p><input disabled="" type="text"/></div>`, out)
	assert.NotNil(t, tree.OnClick)
}

// TestNewVNode_InputHandler verifies input handlers are lifted off the
// attributes and receive the typed value.
func TestNewVNode_InputHandler(t *testing.T) {
	// Arrange
	var got string
	input := InputText(map[string]any{"name": "q", "onInput": func(v string) { got = v }})

	// Act
	input.OnInput("shoes")
	out, err := HTMLString(input)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "shoes", got)
	assert.Equal(t, `<input name="q" type="text"/>`, out)
}

// TestRenderHTML_FragmentFlattens verifies fragments render only their children.
func TestRenderHTML_FragmentFlattens(t *testing.T) {
	out, err := HTMLString(Fragment(Span("a", nil), nil, Span("b", nil)))

	require.NoError(t, err)
	assert.Equal(t, "<span>a</span><span>b</span>", out)
}

// TestVNode_FindAndClone verifies tree helpers.
func TestVNode_FindAndClone(t *testing.T) {
	tree := Div(nil, Div(map[string]any{"data-tree-path": "store/home"}, Strong("x")))

	found := tree.Find(func(n *VNode) bool { return n.Attr("data-tree-path") == "store/home" })
	require.NotNil(t, found)
	assert.Equal(t, "strong", found.Children[0].Tag)

	c := found.Clone()
	c.Attributes["data-tree-path"] = "changed"
	assert.Equal(t, "store/home", found.Attr("data-tree-path"))
}
