//go:build js || wasm
// +build js wasm

package vdom

import (
	"fmt"
	"syscall/js"

	"github.com/vcrobe/nojs-render/console"
)

// DOMMount renders trees under the first element matching a CSS selector.
// It implements runtime.Mounter for browser builds.
type DOMMount struct {
	Selector  string
	callbacks []js.Func
}

// NewDOMMount creates a mount for selector.
func NewDOMMount(selector string) *DOMMount {
	return &DOMMount{Selector: selector}
}

// Mount replaces the mount element's content with next.
func (m *DOMMount) Mount(next *VNode) {
	doc := js.Global().Get("document")
	if !doc.Truthy() || next == nil {
		return
	}
	mount := doc.Call("querySelector", m.Selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", m.Selector)
		return
	}

	// Release handlers bound to the previous tree before dropping it.
	for _, cb := range m.callbacks {
		cb.Release()
	}
	m.callbacks = m.callbacks[:0]

	mount.Set("innerHTML", "")
	for _, el := range m.createElements(doc, next) {
		mount.Call("appendChild", el)
	}
}

func (m *DOMMount) createElements(doc js.Value, n *VNode) []js.Value {
	if n == nil {
		return nil
	}
	if n.Tag == "" {
		var out []js.Value
		if n.Content != "" {
			out = append(out, doc.Call("createTextNode", n.Content))
		}
		for _, child := range n.Children {
			out = append(out, m.createElements(doc, child)...)
		}
		return out
	}

	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attributes {
		switch val := v.(type) {
		case nil, func(), func(string):
		case bool:
			if val {
				el.Call("setAttribute", k, "")
			}
		default:
			el.Call("setAttribute", k, fmt.Sprint(val))
		}
	}
	if n.Content != "" {
		if n.Tag == "input" {
			el.Set("value", n.Content)
		} else {
			el.Set("textContent", n.Content)
		}
	}
	for _, child := range n.Children {
		for _, childEl := range m.createElements(doc, child) {
			el.Call("appendChild", childEl)
		}
	}
	if n.OnClick != nil {
		onClick := n.OnClick
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				args[0].Call("stopPropagation")
			}
			onClick()
			return nil
		})
		m.callbacks = append(m.callbacks, cb)
		el.Call("addEventListener", "click", cb)
	}
	if n.OnInput != nil {
		onInput := n.OnInput
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				onInput(args[0].Get("target").Get("value").String())
			}
			return nil
		})
		m.callbacks = append(m.callbacks, cb)
		el.Call("addEventListener", "input", cb)
	}
	return []js.Value{el}
}
