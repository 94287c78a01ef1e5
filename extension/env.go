// Package extension renders extension points: positions in the page tree,
// addressed by tree path, that resolve to a configured component through the
// runtime store.
//
// An ExtensionPoint is in one of three states. Resolved renders the
// registered component with layered props. Empty renders the add-component
// affordance outside production and nothing in production. EditOverride
// renders the component with the unsaved editor draft. Outside production an
// extension point follows the store through three bus events (its
// extension, its component and the wildcard); in production it resolves once
// per tree path.
package extension

import (
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/store"
)

// Editor is the editing collaborator of extension points.
type Editor interface {
	// Draft returns the unsaved props for treePath while it is being edited.
	Draft(treePath string) (store.Props, bool)
	// Open starts editing treePath.
	Open(treePath string) error
}

// Env carries the dependencies shared by every extension point of a page.
// It is threaded explicitly through the tree; Store is required.
type Env struct {
	Store    *store.Store
	Registry *registry.Registry
	Editor   Editor
	// Catalog feeds the add-component picker of empty slots. Without it empty
	// slots render a bare placeholder outside production.
	Catalog store.Catalog
}

func (env *Env) registry() *registry.Registry {
	if env.Registry != nil {
		return env.Registry
	}
	return env.Store.Registry()
}

// Mountable is implemented by components that mount extension points of
// their own. MountAt is called on every instance the extension point
// creates, before it is rendered.
type Mountable interface {
	MountAt(env *Env, treePath string)
}
