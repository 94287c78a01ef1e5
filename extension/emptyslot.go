package extension

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

// EmptySlot is the add-component affordance of an empty extension point.
// Opening it loads the catalog; selecting an entry registers its assets and
// binds it to the slot's tree path.
type EmptySlot struct {
	runtime.ComponentBase
	Env      *Env
	TreePath string

	mu        sync.Mutex
	open      bool
	query     string
	available []store.AvailableComponent
	err       error
}

// ApplyProps implements runtime.PropUpdater.
func (es *EmptySlot) ApplyProps(next runtime.Component) {
	n := next.(*EmptySlot)
	es.Env, es.TreePath = n.Env, n.TreePath
}

// Open shows the picker and loads the catalog in the background.
func (es *EmptySlot) Open() {
	es.mu.Lock()
	es.open = true
	es.mu.Unlock()
	es.StateHasChanged()

	go func() {
		if err := es.Load(context.Background()); err != nil {
			console.Error("[extension] load components for", es.TreePath, "failed:", err)
		}
		es.StateHasChanged()
	}()
}

// Close hides the picker.
func (es *EmptySlot) Close() {
	es.mu.Lock()
	es.open = false
	es.mu.Unlock()
	es.StateHasChanged()
}

// Load fetches the components that can fill the slot.
func (es *EmptySlot) Load(ctx context.Context) error {
	if es.Env.Catalog == nil {
		return fmt.Errorf("no component catalog configured")
	}
	list, err := es.Env.Catalog.AvailableComponents(ctx, es.TreePath)
	es.mu.Lock()
	defer es.mu.Unlock()
	es.err = err
	if err != nil {
		return err
	}
	es.available = list
	return nil
}

// Filter narrows the list to names containing q, ignoring case.
func (es *EmptySlot) Filter(q string) {
	es.mu.Lock()
	es.query = q
	es.mu.Unlock()
	if es.GetRenderer() != nil {
		es.StateHasChanged()
	}
}

// Visible returns the loaded components matching the filter, in catalog
// order.
func (es *EmptySlot) Visible() []store.AvailableComponent {
	es.mu.Lock()
	defer es.mu.Unlock()
	q := strings.ToLower(es.query)
	out := make([]store.AvailableComponent, 0, len(es.available))
	for _, c := range es.available {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// Select binds the named component to the slot.
func (es *EmptySlot) Select(name string) error {
	es.mu.Lock()
	var picked *store.AvailableComponent
	for i := range es.available {
		if es.available[i].Name == name {
			picked = &es.available[i]
			break
		}
	}
	es.open = false
	es.mu.Unlock()
	if picked == nil {
		return fmt.Errorf("%w: %s", store.ErrUnknownComponent, name)
	}

	s := es.Env.Store
	s.UpdateComponentAssets(map[string]store.ComponentDescriptor{
		picked.Name: {Assets: picked.Assets, Dependencies: picked.Dependencies},
	})
	s.UpdateExtension(es.TreePath, store.Extension{Component: picked.Name})
	return nil
}

// Render implements runtime.Component.
func (es *EmptySlot) Render(r runtime.Renderer) *vdom.VNode {
	es.mu.Lock()
	open, query, err := es.open, es.query, es.err
	es.mu.Unlock()

	attrs := map[string]any{"class": "ExtensionPoint--empty EmptySlot", "data-tree-path": es.TreePath}
	if !open {
		return vdom.Div(attrs, vdom.Button("Add component", map[string]any{"onClick": es.Open}))
	}

	children := []*vdom.VNode{
		vdom.InputText(map[string]any{"class": "EmptySlot-search", "placeholder": "Search components", "value": query, "onInput": es.Filter}),
	}
	if err != nil {
		children = append(children, vdom.Paragraph("Could not load components", map[string]any{"class": "EmptySlot-error"}))
	}
	for _, c := range es.Visible() {
		name := c.Name
		children = append(children, vdom.Button(name, map[string]any{
			"class": "EmptySlot-option",
			"onClick": func() {
				if err := es.Select(name); err != nil {
					console.Warn("[extension]", err)
				}
			},
		}))
	}
	children = append(children, vdom.Button("Cancel", map[string]any{"onClick": es.Close}))
	return vdom.Div(attrs, children...)
}
