package extension

import (
	"fmt"
	"runtime/debug"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// renderBoundary contains a panic raised while rendering the resolved
// component and renders an ErrorPanel in its place.
func (ep *ExtensionPoint) renderBoundary(r runtime.Renderer, render func() *vdom.VNode) (out *vdom.VNode) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		stack := string(debug.Stack())
		console.Error("[extension] render of", ep.treePath, "failed:", rec)
		out = r.RenderChild(ep.treePath+"#error", &ErrorPanel{
			TreePath:   ep.treePath,
			Err:        fmt.Errorf("%v", rec),
			Stack:      stack,
			Production: ep.Env.Store.Production(),
		})
	}()
	return render()
}

// ErrorPanel is the fallback rendered in place of a component that failed
// to render. The stack is only available outside production.
type ErrorPanel struct {
	runtime.ComponentBase
	TreePath   string
	Err        error
	Stack      string
	Production bool

	expanded bool
}

// ApplyProps implements runtime.PropUpdater.
func (p *ErrorPanel) ApplyProps(next runtime.Component) {
	n := next.(*ErrorPanel)
	p.TreePath, p.Err, p.Stack, p.Production = n.TreePath, n.Err, n.Stack, n.Production
}

// ToggleDetails shows or hides the stack.
func (p *ErrorPanel) ToggleDetails() {
	if p.Production {
		return
	}
	p.expanded = !p.expanded
	p.StateHasChanged()
}

// Render implements runtime.Component.
func (p *ErrorPanel) Render(r runtime.Renderer) *vdom.VNode {
	children := []*vdom.VNode{
		vdom.Paragraph("Something went wrong rendering "+p.TreePath, nil),
	}
	if !p.Production {
		label := "Show details"
		if p.expanded {
			label = "Hide details"
		}
		children = append(children, vdom.Button(label, map[string]any{"onClick": p.ToggleDetails}))
		if p.expanded {
			children = append(children, vdom.Pre(p.Err.Error()+"\n\n"+p.Stack, map[string]any{"class": "ErrorPanel-stack"}))
		}
	}
	return vdom.Div(map[string]any{"class": "ExtensionPoint--error", "data-tree-path": p.TreePath}, children...)
}
