package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds layout nesting when no limit is configured.
const DefaultMaxDepth = 64

// ErrLayoutTooDeep is returned for layouts nested deeper than the limit.
var ErrLayoutTooDeep = errors.New("layout too deep")

// Box is an expanded layout node: a flex container, an extension point leaf
// or the children pass-through.
type Box struct {
	Leaf        string
	Passthrough bool
	IsRow       bool
	Class       string
	Style       string
	Children    []*Box
}

// Expand computes the direction, classes and style of every node of n.
// The root is a column unless it overrides the direction. Children keep
// their declared order.
func Expand(n Node, maxDepth int) (*Box, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return expand(n, false, 1, maxDepth)
}

func expand(n Node, isRow bool, depth, maxDepth int) (*Box, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: depth exceeds %d", ErrLayoutTooDeep, maxDepth)
	}
	if n.IsRow != nil {
		isRow = *n.IsRow
	}
	spacing := spacingClasses(n.Style)
	style := ""
	if n.Style.BackgroundColor != "" {
		style = "background-color: " + n.Style.BackgroundColor
	}

	if n.IsLeaf() {
		if n.Leaf == ChildrenLeaf {
			return &Box{Passthrough: true, IsRow: isRow}, nil
		}
		class := spacing
		if !isRow {
			class = joinClasses(direction(false), spacing)
		}
		return &Box{Leaf: n.Leaf, IsRow: isRow, Class: class, Style: style}, nil
	}

	box := &Box{IsRow: isRow, Class: joinClasses(direction(isRow), spacing), Style: style}
	for _, child := range n.Children {
		c, err := expand(child, !isRow, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		box.Children = append(box.Children, c)
	}
	return box, nil
}

// Leaves returns the extension point ids of b in render order, skipping the
// pass-through.
func (b *Box) Leaves() []string {
	var out []string
	var walk func(*Box)
	walk = func(b *Box) {
		if b.Leaf != "" {
			out = append(out, b.Leaf)
			return
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(b)
	return out
}

// Leaves returns every leaf id of n in declared order, including the
// pass-through.
func Leaves(n Node) []string {
	if n.IsLeaf() {
		return []string{n.Leaf}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, Leaves(c)...)
	}
	return out
}

func direction(isRow bool) string {
	if isRow {
		return "flex flex-grow-1 flex-row"
	}
	return "flex flex-grow-1 flex-column"
}

// spacingClasses renders non-zero edges as m{t,r,b,l}N and p{t,r,b,l}N.
func spacingClasses(s Style) string {
	var parts []string
	edge := func(prefix string, e Edges) {
		for _, side := range []struct {
			name string
			v    int
		}{{"t", e.Top}, {"r", e.Right}, {"b", e.Bottom}, {"l", e.Left}} {
			if side.v != 0 {
				parts = append(parts, prefix+side.name+strconv.Itoa(side.v))
			}
		}
	}
	edge("m", s.Margin)
	edge("p", s.Padding)
	return strings.Join(parts, " ")
}

func joinClasses(classes ...string) string {
	kept := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}
