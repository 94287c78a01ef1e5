package store

import (
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
)

// Props are extension properties as stored in the runtime payload.
type Props = registry.Props

// Extension binds a component and its configured props to a tree path.
type Extension struct {
	Component string `json:"component"`
	Props     Props  `json:"props,omitempty"`
}

// ComponentDescriptor lists what a component needs to become renderable.
type ComponentDescriptor struct {
	Assets       []string         `json:"assets"`
	Dependencies []string         `json:"dependencies,omitempty"`
	Schema       *registry.Schema `json:"schema,omitempty"`
}

// Culture is the active locale and related regional settings.
type Culture struct {
	Locale   string `json:"locale"`
	Currency string `json:"currency,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Messages is an i18n message bundle keyed by message id.
type Messages = map[string]string

// RuntimePayload is the JSON shape of the server-rendered runtime.
type RuntimePayload struct {
	Account    string                         `json:"account,omitempty"`
	Components map[string]ComponentDescriptor `json:"components"`
	Culture    Culture                        `json:"culture"`
	Extensions map[string]Extension           `json:"extensions"`
	Messages   Messages                       `json:"messages"`
	Page       string                         `json:"page"`
	Pages      map[string]router.Page         `json:"pages"`
	Production bool                           `json:"production"`
	Query      map[string]string              `json:"query,omitempty"`
	Settings   map[string]any                 `json:"settings,omitempty"`
}

// ExtensionChange is the payload of extension:<path>:update emissions.
type ExtensionChange struct {
	Path      string
	Extension Extension
	Present   bool
}

// AvailableComponent is an entry of the add-component picker.
type AvailableComponent struct {
	Name         string   `json:"name"`
	Assets       []string `json:"assets"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// cloneProps deep-copies JSON-shaped values so readers never alias the
// stored props.
func cloneProps(p Props) Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func (e Extension) clone() Extension {
	return Extension{Component: e.Component, Props: cloneProps(e.Props)}
}

func clonePage(p router.Page) router.Page {
	if p.Params != nil {
		params := make(map[string]string, len(p.Params))
		for k, v := range p.Params {
			params[k] = v
		}
		p.Params = params
	}
	return p
}
