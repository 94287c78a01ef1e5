package runtime

import "github.com/vcrobe/nojs-render/vdom"

// Component is anything the renderer can place in the tree: page views,
// extension points, layouts and the components they resolve to.
//
// Render must be a pure function of the component's state and props. It
// runs under the renderer lock, so it may call r.RenderChild but must not
// trigger a re-render.
type Component interface {
	Render(r Renderer) *vdom.VNode

	// SetRenderer attaches the renderer before every render pass so
	// StateHasChanged can schedule scoped re-renders.
	SetRenderer(r Renderer)
}
