package vdom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML serialises the tree rooted at n as HTML markup.
// Fragments contribute only their children; click handlers are dropped.
func RenderHTML(w io.Writer, n *VNode) error {
	for _, node := range toHTML(n) {
		if err := html.Render(w, node); err != nil {
			return fmt.Errorf("render %s: %w", n.Tag, err)
		}
	}
	return nil
}

// HTMLString is RenderHTML into a string.
func HTMLString(n *VNode) (string, error) {
	var sb strings.Builder
	if err := RenderHTML(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toHTML(n *VNode) []*html.Node {
	if n == nil {
		return nil
	}
	if n.Tag == "" {
		var out []*html.Node
		if n.Content != "" {
			out = append(out, &html.Node{Type: html.TextNode, Data: n.Content})
		}
		for _, c := range n.Children {
			out = append(out, toHTML(c)...)
		}
		return out
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
		Attr:     attributes(n.Attributes),
	}
	if n.Content != "" {
		if n.Tag == "input" {
			el.Attr = append(el.Attr, html.Attribute{Key: "value", Val: n.Content})
		} else {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Content})
		}
	}
	for _, c := range n.Children {
		for _, child := range toHTML(c) {
			el.AppendChild(child)
		}
	}
	return []*html.Node{el}
}

// attributes renders the attribute map in key order so output is stable.
func attributes(attrs map[string]any) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case nil, func(), func(string):
			continue
		case bool:
			if v {
				out = append(out, html.Attribute{Key: k})
			}
		default:
			out = append(out, html.Attribute{Key: k, Val: fmt.Sprint(v)})
		}
	}
	return out
}
