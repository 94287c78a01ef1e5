// Package appcomponents holds the components every render server ships under
// the "render" app: text, headings, links, a counter and a flex layout.
// Sites compose them through extensions without registering Go code.
package appcomponents

import (
	"fmt"

	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/vdom"
)

// App is the app prefix of every built-in component id.
const App = "render"

// Component ids.
const (
	TextID    = App + "/Text"
	HeadingID = App + "/Heading"
	LinkID    = App + "/Link"
	CounterID = App + "/Counter"
	FlexID    = App + "/Flex"
)

// Register adds the built-in components to reg.
func Register(reg *registry.Registry) {
	reg.Register(TextID, func(p registry.Props, _ []*vdom.VNode) runtime.Component {
		return &Text{Props: p}
	}, registry.WithSchema(registry.Schema{
		Title: "Text",
		Fields: []registry.Field{
			{Name: "text", Type: "string", Title: "Text"},
			{Name: "message", Type: "string", Title: "Message id"},
		},
	}))
	reg.Register(HeadingID, func(p registry.Props, _ []*vdom.VNode) runtime.Component {
		return &Heading{Props: p}
	}, registry.WithSchema(registry.Schema{
		Title: "Heading",
		Fields: []registry.Field{
			{Name: "text", Type: "string", Title: "Text"},
			{Name: "level", Type: "number", Title: "Level", Default: 1},
		},
	}))
	reg.Register(LinkID, func(p registry.Props, _ []*vdom.VNode) runtime.Component {
		return &Link{Props: p}
	})
	reg.Register(CounterID, func(p registry.Props, _ []*vdom.VNode) runtime.Component {
		return &Counter{Start: intProp(p, "start", 0)}
	})
	reg.Register(FlexID, func(p registry.Props, children []*vdom.VNode) runtime.Component {
		return &Flex{Props: p, Children: children}
	})
}

func stringProp(p registry.Props, name string) string {
	v, ok := p[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// intProp accepts JSON numbers, which decode as float64.
func intProp(p registry.Props, name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
