package events

// ExtensionWildcard is emitted after a change that may affect any extension.
const ExtensionWildcard = "extension:*:update"

// Inbound runtime events, published by the push channel or the host page.
const (
	// LocalesChanged requests a locale switch. Payload: string.
	LocalesChanged = "localesChanged"
	// LocalesUpdated reports that message bundles changed on the server.
	// Payload: []string of locales.
	LocalesUpdated = "localesUpdated"
	// ExtensionsUpdated reports that the server-side runtime changed.
	ExtensionsUpdated = "extensionsUpdated"
	// ComponentUpdated reports new assets for a component. Payload: string id.
	ComponentUpdated = "componentUpdated"
)

// ComponentUpdate names the event emitted when the component id changes.
func ComponentUpdate(componentID string) string {
	return "component:" + componentID + ":update"
}

// ExtensionUpdate names the event emitted when the extension at treePath changes.
func ExtensionUpdate(treePath string) string {
	return "extension:" + treePath + ":update"
}
