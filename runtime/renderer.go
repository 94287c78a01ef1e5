package runtime

import "github.com/vcrobe/nojs-render/vdom"

// Renderer defines the minimal set of runtime operations used by Render() code.
// This interface has NO build tags, making it available to both WASM and native test builds.
type Renderer interface {
	// RenderChild is used by components to render child components.
	// The key parameter uniquely identifies the component instance for state preservation.
	RenderChild(key string, childWithProps Component) *vdom.VNode

	// ReRender requests that the renderer re-run the render cycle from the root.
	ReRender()

	// ReRenderKey re-renders only the instance mounted at key and its
	// descendants, leaving the rest of the tree untouched.
	ReRenderKey(key string) error

	// Navigate performs client-side navigation to the given path.
	Navigate(path string) error
}

// Mounter receives every committed tree. The browser implementation is
// vdom.DOMMount; tests and server rendering capture the tree instead.
type Mounter interface {
	Mount(tree *vdom.VNode)
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(tree *vdom.VNode)

// Mount implements Mounter.
func (f MounterFunc) Mount(tree *vdom.VNode) { f(tree) }
