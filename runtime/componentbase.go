package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-render/console"
)

// ComponentBase is a struct that components can embed to gain access to the
// StateHasChanged method, which triggers a UI re-render.
// This type has no build tags and works in both WASM and test environments.
type ComponentBase struct {
	renderer Renderer // Use interface type, not concrete implementation
	key      string   // Instance key assigned by the renderer
}

// SetRenderer is called by the framework's runtime to inject a reference
// to the renderer, enabling StateHasChanged. This method should not be
// called by user code.
func (b *ComponentBase) SetRenderer(r Renderer) {
	b.renderer = r
}

// GetRenderer returns the renderer instance associated with this component.
func (b *ComponentBase) GetRenderer() Renderer {
	return b.renderer
}

// InstanceKey returns the key this component is mounted at, or "" before
// its first render.
func (b *ComponentBase) InstanceKey() string {
	return b.key
}

func (b *ComponentBase) setInstanceKey(key string) {
	b.key = key
}

// StateHasChanged signals to the framework that the component's state has
// been updated and the UI should be re-rendered to reflect the changes.
// A mounted component re-renders only its own subtree.
func (b *ComponentBase) StateHasChanged() {
	if b.renderer == nil {
		console.Error("StateHasChanged called, but renderer is nil (component not mounted?)")
		return
	}
	if b.key == "" {
		b.renderer.ReRender()
		return
	}
	if err := b.renderer.ReRenderKey(b.key); err != nil {
		console.Error("ReRenderKey failed:", err.Error())
	}
}

// Navigate requests client-side navigation to a new path.
// Returns an error if the renderer is not set or navigation fails.
func (b *ComponentBase) Navigate(path string) error {
	if b.renderer == nil {
		return fmt.Errorf("navigate called, but renderer is nil (component not mounted?)")
	}
	return b.renderer.Navigate(path)
}
