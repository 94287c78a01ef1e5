package runtime

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/vdom"
)

// RootKey is the instance key of the root component.
const RootKey = "__root__"

// ErrNotMounted is returned by ReRenderKey for keys with no live instance.
var ErrNotMounted = errors.New("no component mounted at key")

// Compile-time assertion to ensure the concrete RendererImpl implements the Renderer interface.
var _ Renderer = (*RendererImpl)(nil)

// RendererImpl is the concrete implementation of the Renderer interface.
// It manages the component instance tree and handles rendering lifecycle.
//
// Every instance key owns a stable fragment node that wraps the instance's
// latest output. Parents embed that fragment, so a scoped re-render replaces
// the fragment's children in place and the rest of the committed tree is
// reused as is.
//
// Render methods must not call back into ReRender or ReRenderKey
// synchronously; the renderer lock is held for the whole pass.
type RendererImpl struct {
	mu               sync.Mutex
	instances        map[string]Component
	slots            map[string]*vdom.VNode // Stable per-key fragment in the committed tree
	children         map[string][]string    // Direct child keys recorded during the last render of each key
	renders          map[string]int         // Render passes per key, for diagnostics
	activeKeys       map[string]bool        // Track which components are active in the current pass
	stack            []string               // Keys currently rendering, innermost last
	currentComponent Component              // The currently active root component
	navManager       NavigationManager      // Optional: router for client-side navigation
	mount            Mounter
	tree             *vdom.VNode
	hookPanics       int
}

// NewRenderer creates a new runtime renderer.
// If navManager is nil, the renderer works without routing.
// If mount is nil, committed trees are only kept in memory (see Tree).
func NewRenderer(navManager NavigationManager, mount Mounter) *RendererImpl {
	return &RendererImpl{
		instances:  make(map[string]Component),
		slots:      make(map[string]*vdom.VNode),
		children:   make(map[string][]string),
		renders:    make(map[string]int),
		activeKeys: make(map[string]bool),
		navManager: navManager,
		mount:      mount,
	}
}

// SetCurrentComponent sets the component to be rendered at the root.
func (r *RendererImpl) SetCurrentComponent(comp Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentComponent = comp
}

// RenderRoot starts the rendering process for the entire application and
// returns the committed tree.
func (r *RendererImpl) RenderRoot() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentComponent == nil {
		return nil
	}

	r.activeKeys = make(map[string]bool)
	previous := r.instances[RootKey]
	if previous != nil && previous != r.currentComponent {
		// A new root replaces the whole tree.
		r.destroy(RootKey, previous)
		delete(r.instances, RootKey)
	}

	r.tree = r.renderKeyed(RootKey, r.currentComponent, true)

	// Clean up components that were not rendered in this cycle
	r.cleanupAll()
	r.commit()
	return r.tree
}

// RenderChild is called by Render code to render a child component.
// It handles the core logic of instance creation and reuse.
func (r *RendererImpl) RenderChild(key string, childWithProps Component) *vdom.VNode {
	if r.activeKeys[key] {
		console.Warn("[renderer] key rendered twice in one pass:", key)
	}
	if len(r.stack) > 0 {
		parent := r.stack[len(r.stack)-1]
		r.children[parent] = append(r.children[parent], key)
	}
	return r.renderKeyed(key, childWithProps, true)
}

// renderKeyed resolves the instance for key, runs its lifecycle hooks and
// renders it into its stable slot.
func (r *RendererImpl) renderKeyed(key string, childWithProps Component, withProps bool) *vdom.VNode {
	// Mark this component as active in the current render cycle
	r.activeKeys[key] = true

	instance, exists := r.instances[key]
	isFirstRender := false

	if !exists {
		// First time seeing this component at this location, so store the new instance.
		instance = childWithProps
		r.instances[key] = instance
		isFirstRender = true
	} else if withProps && instance != childWithProps {
		// Preserve the existing instance to keep state and apply the new props.
		if updater, ok := instance.(PropUpdater); ok {
			updater.ApplyProps(childWithProps)
		}
	}

	// Ensure the instance knows about the renderer so it can call StateHasChanged.
	instance.SetRenderer(r)
	if k, ok := instance.(keyed); ok {
		k.setInstanceKey(key)
	}

	if isFirstRender {
		// Call OnInit only once, before first render
		if initializer, ok := instance.(Initializer); ok {
			r.callHook("OnInit", key, initializer.OnInit)
		}
	}

	if withProps {
		// Call OnPropertiesSet before every parent-driven render (including first)
		if paramReceiver, ok := instance.(ParameterReceiver); ok {
			r.callHook("OnPropertiesSet", key, paramReceiver.OnPropertiesSet)
		}
	}

	slot := r.slots[key]
	if slot == nil {
		slot = vdom.Fragment()
		r.slots[key] = slot
	}

	r.children[key] = nil
	r.stack = append(r.stack, key)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	out := instance.Render(r)
	r.renders[key]++
	if out == nil {
		slot.Children = nil
	} else {
		slot.Children = []*vdom.VNode{out}
	}
	return slot
}

// ReRender patches the DOM from the root.
func (r *RendererImpl) ReRender() {
	r.RenderRoot()
}

// ReRenderKey re-renders the instance mounted at key without re-rendering
// its ancestors or siblings. Descendants that are not rendered again are
// destroyed.
func (r *RendererImpl) ReRenderKey(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, ok := r.instances[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMounted, key)
	}

	before := r.descendants(key)
	r.activeKeys = make(map[string]bool)
	r.renderKeyed(key, instance, false)
	r.cleanupUnmountedComponents(before)
	r.commit()
	return nil
}

// descendants returns every key rendered below key in the last pass.
func (r *RendererImpl) descendants(key string) []string {
	var out []string
	pending := append([]string(nil), r.children[key]...)
	seen := make(map[string]bool)
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		pending = append(pending, r.children[next]...)
	}
	return out
}

// cleanupAll checks every known instance against the last pass.
func (r *RendererImpl) cleanupAll() {
	keys := make([]string, 0, len(r.instances))
	for key := range r.instances {
		keys = append(keys, key)
	}
	r.cleanupUnmountedComponents(keys)
}

// cleanupUnmountedComponents removes the candidates that are no longer in the tree
// and calls their OnDestroy lifecycle method if they implement the Cleaner interface.
func (r *RendererImpl) cleanupUnmountedComponents(candidates []string) {
	for _, key := range candidates {
		// If the component wasn't marked as active in this render, it's been unmounted
		if r.activeKeys[key] {
			continue
		}
		instance, ok := r.instances[key]
		if !ok {
			continue
		}
		r.destroy(key, instance)
	}
}

func (r *RendererImpl) destroy(key string, instance Component) {
	// Call OnDestroy if the component implements Cleaner
	if cleaner, ok := instance.(Cleaner); ok {
		r.callHook("OnDestroy", key, cleaner.OnDestroy)
	}

	// Remove from tracking maps
	delete(r.instances, key)
	delete(r.slots, key)
	delete(r.children, key)
	delete(r.renders, key)
}

func (r *RendererImpl) commit() {
	if r.mount != nil && r.tree != nil {
		r.mount.Mount(r.tree)
	}
}

// Tree returns the last committed tree.
func (r *RendererImpl) Tree() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}

// RenderCount returns how many times the instance at key has rendered since
// it was mounted.
func (r *RendererImpl) RenderCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders[key]
}

// Mounted reports whether an instance is live at key.
func (r *RendererImpl) Mounted(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.instances[key]
	return ok
}

// Unmount destroys every instance, running their OnDestroy hooks.
func (r *RendererImpl) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeKeys = make(map[string]bool)
	r.cleanupAll()
	r.tree = nil
}

// Navigate implements the Navigator interface.
// It delegates to the NavigationManager (router) to perform client-side navigation.
// Returns an error if no router is configured.
func (r *RendererImpl) Navigate(path string) error {
	if r.navManager == nil {
		return fmt.Errorf("no router configured for navigation")
	}
	return r.navManager.Navigate(path)
}
