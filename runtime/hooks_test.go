//go:build !dev

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vcrobe/nojs-render/vdom"
)

type panicky struct{ ComponentBase }

func (p *panicky) OnInit() { panic("init failed") }

func (p *panicky) Render(Renderer) *vdom.VNode { return vdom.Span("still here", nil) }

// TestRenderer_HookPanicRecovered verifies a panicking OnInit is logged and
// the component still renders.
func TestRenderer_HookPanicRecovered(t *testing.T) {
	// Arrange
	r := NewRenderer(nil, nil)
	r.SetCurrentComponent(&panicky{})

	// Act
	tree := r.RenderRoot()

	// Assert
	assert.Equal(t, 1, r.HookPanics())
	assert.Equal(t, "<span>still here</span>", text(t, tree))
}

// TestHookPanic_Error verifies the logged message names hook and key.
func TestHookPanic_Error(t *testing.T) {
	err := &HookPanic{Hook: "OnDestroy", Key: "root/a", Value: "boom"}
	assert.Equal(t, "OnDestroy panic in component root/a: boom", err.Error())
}
