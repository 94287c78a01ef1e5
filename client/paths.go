package client

import "fmt"

// Endpoint paths below the versioned prefix.
const (
	RuntimePath    = "/runtime"
	MessagesPath   = "/messages"
	ExtensionsPath = "/extensions"
	AvailablePath  = "/components/available"
	AssetsPath     = "/assets/"
	PushPath       = "/push"
)

// Prefix returns the versioned endpoint prefix of a render major version.
func Prefix(renderMajor int) string {
	return fmt.Sprintf("/_v/v%d", renderMajor)
}

// SaveRequest is the body of a POST to ExtensionsPath.
type SaveRequest struct {
	RequestID string         `json:"requestId"`
	TreePath  string         `json:"treePath"`
	Component string         `json:"component"`
	Props     map[string]any `json:"props,omitempty"`
}
