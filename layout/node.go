// Package layout expands nested row/column layout specifications into
// extension points.
//
// A layout node is a leaf id ("header"), a list of nodes, or an object
// {"children": ..., "backgroundColor": ..., "margin": ..., "padding": ...,
// "isRow": ...}. Directions alternate per level starting with a column; the
// leaf id ChildrenLeaf renders the content passed down by the parent.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChildrenLeaf is the leaf id that renders the passed-through children.
const ChildrenLeaf = "__children__"

// Node is one node of a layout specification. A node with a Leaf id has no
// children.
type Node struct {
	Leaf     string
	Children []Node
	// IsRow overrides the direction inherited from the parent level.
	IsRow *bool
	Style Style
}

// Style is the visual metadata of a node. Unset edges are zero and an unset
// background is transparent.
type Style struct {
	BackgroundColor string
	Margin          Edges
	Padding         Edges
}

// Edges holds per-edge spacing steps.
type Edges struct {
	Top, Right, Bottom, Left int
}

// Leaf returns a leaf node.
func Leaf(id string) Node {
	return Node{Leaf: id}
}

// Column returns a group laid out as a column.
func Column(children ...Node) Node {
	row := false
	return Node{Children: children, IsRow: &row}
}

// Row returns a group laid out as a row.
func Row(children ...Node) Node {
	row := true
	return Node{Children: children, IsRow: &row}
}

// Group returns a group whose direction alternates from its parent.
func Group(children ...Node) Node {
	return Node{Children: children}
}

// IsLeaf reports whether n is a leaf id.
func (n Node) IsLeaf() bool {
	return n.Leaf != ""
}

type objectNode struct {
	Children        json.RawMessage `json:"children"`
	BackgroundColor string          `json:"backgroundColor"`
	Margin          json.RawMessage `json:"margin"`
	Padding         json.RawMessage `json:"padding"`
	IsRow           *bool           `json:"isRow"`
}

// UnmarshalJSON accepts the string, array and object forms.
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("layout: empty node")
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("layout: leaf: %w", err)
		}
		if id == "" {
			return fmt.Errorf("layout: empty leaf id")
		}
		*n = Node{Leaf: id}
		return nil
	case '[':
		var children []Node
		if err := json.Unmarshal(data, &children); err != nil {
			return err
		}
		*n = Node{Children: children}
		return nil
	case '{':
		var obj objectNode
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("layout: object: %w", err)
		}
		var inner Node
		if len(obj.Children) > 0 {
			if err := inner.UnmarshalJSON(obj.Children); err != nil {
				return err
			}
		}
		margin, err := parseEdges(obj.Margin)
		if err != nil {
			return fmt.Errorf("layout: margin: %w", err)
		}
		padding, err := parseEdges(obj.Padding)
		if err != nil {
			return fmt.Errorf("layout: padding: %w", err)
		}
		inner.IsRow = obj.IsRow
		inner.Style = Style{BackgroundColor: obj.BackgroundColor, Margin: margin, Padding: padding}
		*n = inner
		return nil
	default:
		return fmt.Errorf("layout: unsupported node %s", data)
	}
}

// parseEdges accepts a number for every edge, a CSS-style shorthand array
// of one to four numbers, or an object naming the edges.
func parseEdges(raw json.RawMessage) (Edges, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return Edges{}, nil
	}
	switch raw[0] {
	case '[':
		var v []int
		if err := json.Unmarshal(raw, &v); err != nil {
			return Edges{}, err
		}
		switch len(v) {
		case 1:
			return Edges{v[0], v[0], v[0], v[0]}, nil
		case 2:
			return Edges{v[0], v[1], v[0], v[1]}, nil
		case 3:
			return Edges{v[0], v[1], v[2], v[1]}, nil
		case 4:
			return Edges{v[0], v[1], v[2], v[3]}, nil
		default:
			return Edges{}, fmt.Errorf("want 1 to 4 values, got %d", len(v))
		}
	case '{':
		var v struct {
			Top    int `json:"top"`
			Right  int `json:"right"`
			Bottom int `json:"bottom"`
			Left   int `json:"left"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return Edges{}, err
		}
		return Edges{v.Top, v.Right, v.Bottom, v.Left}, nil
	default:
		var all int
		if err := json.Unmarshal(raw, &all); err != nil {
			return Edges{}, err
		}
		return Edges{all, all, all, all}, nil
	}
}
