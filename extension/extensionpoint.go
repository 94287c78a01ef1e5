package extension

import (
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/treepath"
	"github.com/vcrobe/nojs-render/vdom"
)

// State is the resolution state of an extension point.
type State int

const (
	Empty State = iota
	Resolved
	EditOverride
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case EditOverride:
		return "edit-override"
	default:
		return "empty"
	}
}

// Compile-time lifecycle assertions.
var (
	_ runtime.Initializer       = (*ExtensionPoint)(nil)
	_ runtime.ParameterReceiver = (*ExtensionPoint)(nil)
	_ runtime.Cleaner           = (*ExtensionPoint)(nil)
	_ runtime.PropUpdater       = (*ExtensionPoint)(nil)
)

// ExtensionPoint resolves the tree path Mount(ID, ParentPath) and renders
// what the store holds there.
type ExtensionPoint struct {
	runtime.ComponentBase

	Env        *Env
	ID         string
	ParentPath string
	// Props are passed by the parent and win over every other layer.
	Props    store.Props
	Children []*vdom.VNode

	treePath     string
	resolvedPath string
	resolved     bool
	state        State
	extension    store.Extension
	props        store.Props

	handler      *events.Handler
	sub          *events.Subscription
	subComponent string
}

// Render renders the extension point for (id, parentPath) under a key
// derived from its tree path.
func Render(r runtime.Renderer, env *Env, id, parentPath string, props store.Props, children ...*vdom.VNode) *vdom.VNode {
	return r.RenderChild(Key(treepath.Mount(id, parentPath)), &ExtensionPoint{
		Env:        env,
		ID:         id,
		ParentPath: parentPath,
		Props:      props,
		Children:   children,
	})
}

// Key is the renderer key of the extension point at treePath.
func Key(treePath string) string {
	return "ext:" + treePath
}

// TreePath returns the resolved tree path.
func (ep *ExtensionPoint) TreePath() string {
	return ep.treePath
}

// State returns the current resolution state.
func (ep *ExtensionPoint) State() State {
	return ep.state
}

// OnInit creates the handler identity used for every subscription of this
// instance.
func (ep *ExtensionPoint) OnInit() {
	ep.handler = events.NewHandler(ep.onUpdate)
}

// ApplyProps implements runtime.PropUpdater.
func (ep *ExtensionPoint) ApplyProps(next runtime.Component) {
	n := next.(*ExtensionPoint)
	ep.Env = n.Env
	ep.ID = n.ID
	ep.ParentPath = n.ParentPath
	ep.Props = n.Props
	ep.Children = n.Children
}

// OnPropertiesSet tracks the tree path. A changed path drops the old
// subscriptions before the next render makes new ones.
func (ep *ExtensionPoint) OnPropertiesSet() {
	path := treepath.Mount(ep.ID, ep.ParentPath)
	if path != ep.treePath {
		ep.unsubscribe()
		ep.treePath = path
	}
}

// OnDestroy releases the subscriptions.
func (ep *ExtensionPoint) OnDestroy() {
	ep.unsubscribe()
}

func (ep *ExtensionPoint) onUpdate(e events.Event) {
	console.Debug("[extension]", ep.treePath, "notified by", e.Name)
	ep.StateHasChanged()
}

// resolve looks up the extension at the tree path and moves to Empty or
// Resolved. It runs during Render, under the renderer lock, so notifications
// from other goroutines never touch the instance directly.
func (ep *ExtensionPoint) resolve(production bool) {
	ext, ok := ep.Env.Store.GetExtension(ep.treePath)
	ep.resolvedPath = ep.treePath
	ep.resolved = true
	if ok {
		ep.extension = ext
		ep.state = Resolved
	} else {
		ep.extension = store.Extension{}
		ep.state = Empty
	}
	if !production {
		ep.subscribe(ep.extension.Component)
	}
}

// merge recomputes the props of a resolved extension point on every render,
// production included.
func (ep *ExtensionPoint) merge(production bool) {
	if ep.state == Empty {
		ep.props = nil
		return
	}
	ep.state = Resolved
	ep.props = MergeProps(PageProps(ep.Env.Store), ep.extension.Props, ep.Props)
	if !production && ep.Env.Editor != nil {
		if draft, editing := ep.Env.Editor.Draft(ep.treePath); editing {
			ep.state = EditOverride
			ep.props = MergeProps(draft)
		}
	}
}

// subscribe holds extension:<path>, the wildcard and, once resolved,
// component:<id>. It resubscribes when the resolved component changes so the
// names released are always the names acquired.
func (ep *ExtensionPoint) subscribe(componentID string) {
	if ep.sub != nil && ep.subComponent == componentID {
		return
	}
	ep.unsubscribe()
	if ep.handler == nil {
		ep.handler = events.NewHandler(ep.onUpdate)
	}
	names := []string{events.ExtensionUpdate(ep.treePath), events.ExtensionWildcard}
	if componentID != "" {
		names = append(names, events.ComponentUpdate(componentID))
	}
	ep.sub = events.Subscribe(ep.Env.Store.Emitter(), ep.handler, names...)
	ep.subComponent = componentID
}

func (ep *ExtensionPoint) unsubscribe() {
	ep.sub.Close()
	ep.sub = nil
	ep.subComponent = ""
}

// Render implements runtime.Component.
func (ep *ExtensionPoint) Render(r runtime.Renderer) *vdom.VNode {
	production := ep.Env.Store.Production()
	// Production extensions are fixed for a tree path.
	if !production || !ep.resolved || ep.resolvedPath != ep.treePath {
		ep.resolve(production)
	}
	ep.merge(production)
	if ep.state == Empty {
		// Nested page extension points pass their children through.
		if len(ep.Children) > 0 {
			return vdom.Fragment(ep.Children...)
		}
		if production {
			return nil
		}
		if ep.Env.Catalog == nil {
			return vdom.Div(map[string]any{"class": "ExtensionPoint--empty", "data-tree-path": ep.treePath})
		}
		return r.RenderChild(ep.treePath+"#empty", &EmptySlot{Env: ep.Env, TreePath: ep.treePath})
	}

	entry, ok := ep.Env.registry().Lookup(ep.extension.Component)
	if !ok || entry.Factory == nil {
		if !production {
			console.Warn("[extension] component not found:", ep.extension.Component, "at", ep.treePath)
		}
		return nil
	}

	child := ep.renderBoundary(r, func() *vdom.VNode {
		comp := entry.Factory(ep.props, ep.Children)
		if m, ok := comp.(Mountable); ok {
			m.MountAt(ep.Env, ep.treePath)
		}
		return r.RenderChild(ep.treePath+"@"+ep.extension.Component, comp)
	})

	if production || !ep.Env.Store.EditMode() || entry.Schema == nil {
		return child
	}
	class := "ExtensionPoint--editable"
	if ep.state == EditOverride {
		class += " ExtensionPoint--editing"
	}
	path := ep.treePath
	return vdom.Div(map[string]any{
		"class":          class,
		"data-tree-path": path,
		"onClick": func() {
			if ep.Env.Editor == nil {
				return
			}
			if err := ep.Env.Editor.Open(path); err != nil {
				console.Error("[extension] open editor for", path, "failed:", err)
			}
		},
	}, child)
}
