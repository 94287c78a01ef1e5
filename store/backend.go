package store

import "context"

// RuntimeRequest selects the runtime payload to fetch.
type RuntimeRequest struct {
	Page       string
	Production bool
	Locale     string
}

// MessagesRequest selects a message bundle. App restricts the bundle to one
// app's messages; Refresh bypasses caches.
type MessagesRequest struct {
	Page       string
	Production bool
	Locale     string
	App        string
	Refresh    bool
}

// Backend is the set of remote collaborators the store depends on.
// Every method may block and must honour ctx.
type Backend interface {
	FetchRuntime(ctx context.Context, req RuntimeRequest) (*RuntimePayload, error)
	FetchMessages(ctx context.Context, req MessagesRequest) (Messages, error)
	// FetchAssets makes the component renderable (scripts and styles on the
	// web, factory registration natively).
	FetchAssets(ctx context.Context, componentID string, d ComponentDescriptor) error
}

// Saver persists an edited extension.
type Saver interface {
	SaveExtension(ctx context.Context, treePath, component string, props Props) error
}

// Catalog lists the components that can be added to an empty slot.
type Catalog interface {
	AvailableComponents(ctx context.Context, treePath string) ([]AvailableComponent, error)
}

// Preferences durably records client choices.
type Preferences interface {
	SaveLocale(ctx context.Context, locale string) error
}
