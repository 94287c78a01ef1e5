// Package vdom holds the virtual DOM tree produced by component renders.
package vdom

import "maps"

// VNode represents a virtual DOM node.
// A node with an empty Tag is a fragment: only its children are rendered.
type VNode struct {
	Tag        string         // The HTML tag name
	Attributes map[string]any // The attributes of the node
	Children   []*VNode       // The child nodes
	Content    string         // The text content of the node
	OnClick    func()         // Optional click event handler
	OnInput    func(string)   // Optional input handler, called with the new value
}

// NewVNode creates a new VNode.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	var onClick func()
	var onInput func(string)
	if attributes != nil {
		if v, ok := attributes["onClick"]; ok {
			if f, ok := v.(func()); ok {
				onClick = f
				// Remove from attributes so it doesn't get rendered as an HTML attribute
				delete(attributes, "onClick")
			}
		}
		if v, ok := attributes["onInput"]; ok {
			if f, ok := v.(func(string)); ok {
				onInput = f
				delete(attributes, "onInput")
			}
		}
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   compact(children),
		Content:    content,
		OnClick:    onClick,
		OnInput:    onInput,
	}
}

// compact drops nil children so conditional renders can pass nil freely.
func compact(children []*VNode) []*VNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]*VNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SetContent updates the Content field of the VNode.
func (v *VNode) SetContent(content string) {
	v.Content = content
}

// Attr returns the attribute value as a string, or "" when absent.
func (v *VNode) Attr(name string) string {
	if v == nil || v.Attributes == nil {
		return ""
	}
	if s, ok := v.Attributes[name].(string); ok {
		return s
	}
	return ""
}

// Clone returns a shallow copy of v with its own attribute map and child slice.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := *v
	c.Attributes = maps.Clone(v.Attributes)
	c.Children = append([]*VNode(nil), v.Children...)
	return &c
}

// Walk visits v and its descendants depth-first, stopping when fn returns false.
func (v *VNode) Walk(fn func(*VNode) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, c := range v.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node, depth-first, for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	var found *VNode
	v.Walk(func(n *VNode) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Fragment groups children without a wrapping element.
func Fragment(children ...*VNode) *VNode {
	return NewVNode("", nil, children, "")
}

// Paragraph creates a <p> VNode with the given text as its child and allows passing attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Span creates a <span> VNode with text content.
func Span(text string, attrs map[string]any) *VNode {
	return NewVNode("span", attrs, nil, text)
}

// Strong creates a <strong> VNode.
func Strong(text string) *VNode {
	return NewVNode("strong", nil, nil, text)
}

// Heading creates an <hN> VNode.
func Heading(level int, text string, attrs map[string]any) *VNode {
	if level < 1 || level > 6 {
		level = 2
	}
	return NewVNode("h"+string(rune('0'+level)), attrs, nil, text)
}

// Pre creates a <pre><code> block holding text.
func Pre(text string, attrs map[string]any) *VNode {
	return NewVNode("pre", nil, []*VNode{NewVNode("code", attrs, nil, text)}, "")
}

// InputText returns a VNode representing an <input type="text"> element.
// Optionally accepts a map of attributes (e.g., {"placeholder": "Type here"}).
func InputText(attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["type"] = "text"
	return NewVNode("input", attrs, nil, "")
}

// Div creates a <div> VNode with the given children and allows passing attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Button creates a <button> VNode with the given children and allows passing attributes.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("button", attrs, children, content)
}
