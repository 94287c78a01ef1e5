package layout_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/layout"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/testcomponents"
	"github.com/vcrobe/nojs-render/vdom"
)

type label struct {
	runtime.ComponentBase
	props store.Props
}

func (l *label) ApplyProps(next runtime.Component) { l.props = next.(*label).props }

func (l *label) Render(runtime.Renderer) *vdom.VNode {
	return vdom.Span(fmt.Sprint(l.props["text"]), nil)
}

func newEnv(t *testing.T, exts map[string]store.Extension) *extension.Env {
	t.Helper()
	reg := registry.New()
	reg.Register("shop/label", func(p registry.Props, _ []*vdom.VNode) runtime.Component { return &label{props: p} })
	s, err := store.New(&store.RuntimePayload{Extensions: exts}, store.Options{Emitter: events.NewEmitter(), Registry: reg})
	require.NoError(t, err)
	return &extension.Env{Store: s}
}

// TestExpand_NestedRowInColumn verifies the column/row example: three
// extension points root/a, root/b and root/c with b and c in a row.
func TestExpand_NestedRowInColumn(t *testing.T) {
	// Arrange
	tree := layout.Column(layout.Leaf("a"), layout.Row(layout.Leaf("b"), layout.Leaf("c")))
	env := newEnv(t, map[string]store.Extension{
		"root/a": {Component: "shop/label", Props: store.Props{"text": "A"}},
		"root/b": {Component: "shop/label", Props: store.Props{"text": "B"}},
		"root/c": {Component: "shop/label", Props: store.Props{"text": "C"}},
	})
	r := testcomponents.NewTestRenderer(&layout.Container{Env: env, Layout: tree, ParentPath: "root"}, nil)

	// Act
	r.RenderRoot()

	// Assert
	for _, path := range []string{"root/a", "root/b", "root/c"} {
		assert.True(t, r.Mounted(extension.Key(path)), path)
	}
	assert.Equal(t,
		`<div class="flex flex-grow-1 flex-column">`+
			`<div><span>A</span></div>`+
			`<div class="flex flex-grow-1 flex-row">`+
			`<div class="flex flex-grow-1 flex-column"><span>B</span></div>`+
			`<div class="flex flex-grow-1 flex-column"><span>C</span></div>`+
			`</div>`+
			`</div>`,
		r.HTML())
}

// TestExpand_DirectionAlternates verifies groups without an override
// alternate per level.
func TestExpand_DirectionAlternates(t *testing.T) {
	box, err := layout.Expand(layout.Group(layout.Group(layout.Group(layout.Leaf("x")))), 0)

	require.NoError(t, err)
	assert.False(t, box.IsRow)
	assert.True(t, box.Children[0].IsRow)
	assert.False(t, box.Children[0].Children[0].IsRow)
}

// TestLeaves_DeclaredOrder verifies every leaf is visited once in order.
func TestLeaves_DeclaredOrder(t *testing.T) {
	tree := layout.Group(layout.Leaf("a"), layout.Group(layout.Leaf("b"), layout.Leaf(layout.ChildrenLeaf), layout.Group(layout.Leaf("c"))), layout.Leaf("d"))

	box, err := layout.Expand(tree, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", layout.ChildrenLeaf, "c", "d"}, layout.Leaves(tree))
	assert.Equal(t, []string{"a", "b", "c", "d"}, box.Leaves())
}

// TestNode_UnmarshalJSON verifies the string, array and object forms.
func TestNode_UnmarshalJSON(t *testing.T) {
	// Arrange
	raw := `[
		"header",
		{"children": ["left", "right"], "backgroundColor": "#fff", "margin": [1, 2], "padding": {"top": 3}},
		{"children": "footer", "isRow": true, "padding": 2}
	]`

	// Act
	var n layout.Node
	err := json.Unmarshal([]byte(raw), &n)

	// Assert
	require.NoError(t, err)
	require.Len(t, n.Children, 3)
	assert.Equal(t, "header", n.Children[0].Leaf)
	group := n.Children[1]
	assert.Equal(t, []string{"left", "right"}, layout.Leaves(group))
	assert.Equal(t, layout.Style{
		BackgroundColor: "#fff",
		Margin:          layout.Edges{Top: 1, Right: 2, Bottom: 1, Left: 2},
		Padding:         layout.Edges{Top: 3},
	}, group.Style)
	footer := n.Children[2]
	assert.Equal(t, "footer", footer.Leaf)
	require.NotNil(t, footer.IsRow)
	assert.True(t, *footer.IsRow)
	assert.Equal(t, layout.Edges{Top: 2, Right: 2, Bottom: 2, Left: 2}, footer.Style.Padding)
}

// TestNode_UnmarshalJSONRejectsGarbage verifies malformed nodes fail.
func TestNode_UnmarshalJSONRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`42`, `""`, `{"margin": [1,2,3,4,5], "children": "a"}`, `[true]`} {
		var n layout.Node
		assert.Error(t, json.Unmarshal([]byte(raw), &n), raw)
	}
}

// TestExpand_StyleClasses verifies spacing classes and background style.
func TestExpand_StyleClasses(t *testing.T) {
	n := layout.Group(layout.Leaf("a"))
	n.Style = layout.Style{BackgroundColor: "red", Margin: layout.Edges{Top: 2}, Padding: layout.Edges{Left: 1, Right: 1}}

	box, err := layout.Expand(n, 0)

	require.NoError(t, err)
	assert.Equal(t, "flex flex-grow-1 flex-column mt2 pr1 pl1", box.Class)
	assert.Equal(t, "background-color: red", box.Style)
}

// TestExpand_TooDeep verifies pathological depth fails fast.
func TestExpand_TooDeep(t *testing.T) {
	// Arrange
	n := layout.Leaf("bottom")
	for i := 0; i < 10; i++ {
		n = layout.Group(n)
	}

	// Act
	_, tooDeep := layout.Expand(n, 5)
	_, ok := layout.Expand(n, 11)

	// Assert
	assert.True(t, errors.Is(tooDeep, layout.ErrLayoutTooDeep))
	assert.NoError(t, ok)
}

// TestContainer_TooDeepRendersPlaceholder verifies the failure stays in the
// layout subtree.
func TestContainer_TooDeepRendersPlaceholder(t *testing.T) {
	n := layout.Leaf("bottom")
	for i := 0; i < 4; i++ {
		n = layout.Group(n)
	}
	r := testcomponents.NewTestRenderer(&layout.Container{Env: newEnv(t, nil), Layout: n, ParentPath: "root", MaxDepth: 2}, nil)

	r.RenderRoot()

	assert.Equal(t, `<div class="Layout--error" data-tree-path="root"></div>`, r.HTML())
}

// TestContainer_ChildrenPassthrough verifies the sentinel renders the
// parent's children in place.
func TestContainer_ChildrenPassthrough(t *testing.T) {
	tree := layout.Row(layout.Leaf(layout.ChildrenLeaf))
	c := &layout.Container{
		Env:      newEnv(t, nil),
		Layout:   tree,
		Children: []*vdom.VNode{vdom.Strong("inner")},
	}
	r := testcomponents.NewTestRenderer(c, nil)

	r.RenderRoot()

	assert.Equal(t, `<div class="flex flex-grow-1 flex-row"><strong>inner</strong></div>`, r.HTML())
}
