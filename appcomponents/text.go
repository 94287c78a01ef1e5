package appcomponents

import (
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// Text renders a paragraph. A "message" prop is looked up in the active
// message bundle and wins over "text" when the bundle has it.
type Text struct {
	runtime.ComponentBase
	Props registry.Props

	env *extension.Env
}

// MountAt implements extension.Mountable.
func (t *Text) MountAt(env *extension.Env, _ string) {
	t.env = env
}

// ApplyProps implements runtime.PropUpdater.
func (t *Text) ApplyProps(next runtime.Component) {
	n := next.(*Text)
	t.Props, t.env = n.Props, n.env
}

// Render implements runtime.Component.
func (t *Text) Render(runtime.Renderer) *vdom.VNode {
	text := stringProp(t.Props, "text")
	if id := stringProp(t.Props, "message"); id != "" && t.env != nil {
		if m, ok := t.env.Store.Messages()[id]; ok {
			text = m
		}
	}
	var attrs map[string]any
	if class := stringProp(t.Props, "class"); class != "" {
		attrs = map[string]any{"class": class}
	}
	return vdom.Paragraph(text, attrs)
}

// Heading renders h1..h6 from the "text" and "level" props.
type Heading struct {
	runtime.ComponentBase
	Props registry.Props
}

// ApplyProps implements runtime.PropUpdater.
func (h *Heading) ApplyProps(next runtime.Component) {
	h.Props = next.(*Heading).Props
}

// Render implements runtime.Component.
func (h *Heading) Render(runtime.Renderer) *vdom.VNode {
	level := min(max(intProp(h.Props, "level", 1), 1), 6)
	return vdom.Heading(level, stringProp(h.Props, "text"), nil)
}
