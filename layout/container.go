package layout

import (
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

// Container renders a layout as nested flex boxes with one extension point
// per leaf id, mounted under ParentPath. Props are forwarded to every
// extension point. A layout that cannot be expanded renders an error
// placeholder in place of the subtree.
type Container struct {
	runtime.ComponentBase
	Env        *extension.Env
	Layout     Node
	ParentPath string
	Props      store.Props
	Children   []*vdom.VNode
	MaxDepth   int
}

// ApplyProps implements runtime.PropUpdater.
func (c *Container) ApplyProps(next runtime.Component) {
	n := next.(*Container)
	c.Env, c.Layout, c.ParentPath, c.Props, c.Children, c.MaxDepth =
		n.Env, n.Layout, n.ParentPath, n.Props, n.Children, n.MaxDepth
}

// Render implements runtime.Component.
func (c *Container) Render(r runtime.Renderer) *vdom.VNode {
	box, err := Expand(c.Layout, c.MaxDepth)
	if err != nil {
		console.Error("[layout] under", c.ParentPath+":", err)
		return vdom.Div(map[string]any{"class": "Layout--error", "data-tree-path": c.ParentPath})
	}
	return c.render(r, box)
}

func (c *Container) render(r runtime.Renderer, b *Box) *vdom.VNode {
	if b.Passthrough {
		return vdom.Fragment(c.Children...)
	}
	attrs := map[string]any{}
	if b.Class != "" {
		attrs["class"] = b.Class
	}
	if b.Style != "" {
		attrs["style"] = b.Style
	}
	if b.Leaf != "" {
		return vdom.Div(attrs, extension.Render(r, c.Env, b.Leaf, c.ParentPath, c.Props))
	}
	children := make([]*vdom.VNode, 0, len(b.Children))
	for _, child := range b.Children {
		children = append(children, c.render(r, child))
	}
	return vdom.Div(attrs, children...)
}
