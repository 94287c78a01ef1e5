package appcomponents

import (
	"encoding/json"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/layout"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// Flex lays out the extension points named by its "layout" prop below its
// own tree path.
type Flex struct {
	runtime.ComponentBase
	Props    registry.Props
	Children []*vdom.VNode

	env      *extension.Env
	treePath string
}

// MountAt implements extension.Mountable.
func (f *Flex) MountAt(env *extension.Env, treePath string) {
	f.env, f.treePath = env, treePath
}

// ApplyProps implements runtime.PropUpdater.
func (f *Flex) ApplyProps(next runtime.Component) {
	n := next.(*Flex)
	f.Props, f.Children, f.env, f.treePath = n.Props, n.Children, n.env, n.treePath
}

// parseLayout converts the JSON-shaped prop through the layout decoder.
func parseLayout(raw any) (layout.Node, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return layout.Node{}, err
	}
	var n layout.Node
	if err := json.Unmarshal(b, &n); err != nil {
		return layout.Node{}, err
	}
	return n, nil
}

// Render implements runtime.Component.
func (f *Flex) Render(r runtime.Renderer) *vdom.VNode {
	if f.env == nil {
		return nil
	}
	node, err := parseLayout(f.Props["layout"])
	if err != nil {
		console.Error("[flex] invalid layout at", f.treePath+":", err)
		return vdom.Div(map[string]any{"class": "Layout--error", "data-tree-path": f.treePath})
	}
	props, _ := f.Props["childProps"].(map[string]any)
	return r.RenderChild(f.treePath+"#layout", &layout.Container{
		Env:        f.env,
		Layout:     node,
		ParentPath: f.treePath,
		Props:      props,
		Children:   f.Children,
		MaxDepth:   layout.DefaultMaxDepth,
	})
}
