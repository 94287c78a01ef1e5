package runtime

// Initializer is implemented by components that need one-time setup before
// their first render at a given key.
type Initializer interface {
	OnInit()
}

// ParameterReceiver is implemented by components that react every time their
// parent renders them with (possibly new) properties.
type ParameterReceiver interface {
	OnPropertiesSet()
}

// Cleaner is implemented by components that hold resources (subscriptions,
// timers) which must be released when the component leaves the tree.
type Cleaner interface {
	OnDestroy()
}

// PropUpdater is implemented by components whose instance is preserved across
// renders. ApplyProps copies the properties of next, a freshly constructed
// value of the same type, into the preserved instance.
type PropUpdater interface {
	ApplyProps(next Component)
}

// keyed is implemented by ComponentBase so the renderer can tell a component
// which instance key it is mounted at.
type keyed interface {
	setInstanceKey(key string)
}

// NavigationManager performs client-side navigation for the renderer.
type NavigationManager interface {
	Navigate(path string) error
}
