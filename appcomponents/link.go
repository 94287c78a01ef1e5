package appcomponents

import (
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// Link navigates to the page named by the "page" prop. "params" fills the
// page's path template and "text" is the label.
type Link struct {
	runtime.ComponentBase
	Props registry.Props

	env *extension.Env
}

// MountAt implements extension.Mountable.
func (l *Link) MountAt(env *extension.Env, _ string) {
	l.env = env
}

// ApplyProps implements runtime.PropUpdater.
func (l *Link) ApplyProps(next runtime.Component) {
	n := next.(*Link)
	l.Props, l.env = n.Props, n.env
}

func (l *Link) params() map[string]string {
	raw, _ := l.Props["params"].(map[string]any)
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k := range raw {
		out[k] = stringProp(raw, k)
	}
	return out
}

func (l *Link) href() string {
	if l.env == nil {
		return "#"
	}
	info, ok := l.env.Store.PageInfo(stringProp(l.Props, "page"))
	if !ok {
		return "#"
	}
	path, err := router.BuildPath(info.Path, l.params())
	if err != nil {
		return "#"
	}
	return path
}

// Follow navigates to the target page.
func (l *Link) Follow() {
	if l.env == nil {
		return
	}
	opts := router.NavigateOptions{Page: stringProp(l.Props, "page"), Params: l.params(), Fallback: stringProp(l.Props, "fallback")}
	if _, err := l.env.Store.Navigate(opts); err != nil {
		console.Warn("[link] navigation failed:", err)
	}
}

// Render implements runtime.Component.
func (l *Link) Render(runtime.Renderer) *vdom.VNode {
	return vdom.NewVNode("a", map[string]any{"href": l.href(), "onClick": l.Follow}, nil, stringProp(l.Props, "text"))
}
