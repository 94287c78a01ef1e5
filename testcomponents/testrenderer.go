// Package testcomponents provides in-memory harnesses for exercising
// components, extension points and the store without a browser.
package testcomponents

import (
	"sync"

	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// TestRenderer drives a runtime.RendererImpl and captures every tree it
// mounts, so tests can:
// - render a root component
// - trigger scoped re-renders through StateHasChanged
// - inspect the latest tree as VNodes or HTML
type TestRenderer struct {
	*runtime.RendererImpl

	mu      sync.Mutex
	current *vdom.VNode
	mounts  int
}

// NewTestRenderer creates a renderer attached to comp. nav may be nil.
func NewTestRenderer(comp runtime.Component, nav runtime.NavigationManager) *TestRenderer {
	r := &TestRenderer{}
	r.RendererImpl = runtime.NewRenderer(nav, runtime.MounterFunc(r.capture))
	r.SetCurrentComponent(comp)
	return r
}

func (r *TestRenderer) capture(tree *vdom.VNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = tree
	r.mounts++
}

// GetCurrentVDOM returns the most recently mounted tree.
func (r *TestRenderer) GetCurrentVDOM() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Mounts returns how many times a tree was mounted.
func (r *TestRenderer) Mounts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounts
}

// HTML serialises the current tree. Serialisation errors yield "".
func (r *TestRenderer) HTML() string {
	out, err := vdom.HTMLString(r.GetCurrentVDOM())
	if err != nil {
		return ""
	}
	return out
}
