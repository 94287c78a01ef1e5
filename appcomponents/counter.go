package appcomponents

import (
	"strconv"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// Counter demonstrates reactive state via StateHasChanged().
// The count survives re-renders of the enclosing extension point; a new
// "start" prop only applies to fresh instances.
type Counter struct {
	runtime.ComponentBase

	Start int
	Count int

	started bool
}

// OnInit implements runtime.Initializer.
func (c *Counter) OnInit() {
	c.Count = c.Start
	c.started = true
}

// ApplyProps implements runtime.PropUpdater.
func (c *Counter) ApplyProps(next runtime.Component) {
	if !c.started {
		c.Start = next.(*Counter).Start
	}
}

// Increment adds one and re-renders the counter.
func (c *Counter) Increment() {
	c.Count++
	console.Debug("[counter] incremented:", c.Count)
	c.StateHasChanged()
}

// Render implements runtime.Component.
func (c *Counter) Render(runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "Counter"},
		vdom.Span(strconv.Itoa(c.Count), map[string]any{"class": "Counter-value"}),
		vdom.Button("+", map[string]any{"class": "Counter-increment", "onClick": c.Increment}),
	)
}
