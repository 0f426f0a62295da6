// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface provides the editable input surface.
package surface

import (
	"strings"
)

// =============================================================================
// NODE TREE
// =============================================================================

// Style is the inline formatting of an element node.
type Style int

const (
	StylePlain  Style = iota // Root or unstyled container
	StyleBold                // **bold**
	StyleItalic              // *italic* or _italic_
	StyleCode                // `code`
	StyleMarker              // Visible markdown delimiter characters
)

// Node is one unit of the surface tree. Leaves are text runs, breaks and
// atomic tokens; elements only group children and carry a Style.
// Nodes never point back at their parent: every lookup is addressed by a
// path from the root.
type Node struct {
	Kind     Kind
	Text     string
	Style    Style
	Image    *Image
	Quote    *Quote
	Children []*Node
}

// NewRoot returns an empty root element holding the given children.
func NewRoot(children ...*Node) *Node {
	return &Node{Kind: KindElement, Style: StylePlain, Children: children}
}

// Text returns a text run.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Break returns a paragraph break.
func Break() *Node {
	return &Node{Kind: KindBreak}
}

// NewImage returns an image token holding a copy of img.
func NewImage(img Image) *Node {
	return &Node{Kind: KindImage, Image: &img}
}

// NewQuote returns a quote token holding a copy of q.
func NewQuote(q Quote) *Node {
	return &Node{Kind: KindQuote, Quote: &q}
}

// Styled returns an element with the given style and children.
func Styled(style Style, children ...*Node) *Node {
	return &Node{Kind: KindElement, Style: style, Children: children}
}

// FromText builds a root from plain text, turning every newline into a
// paragraph break.
func FromText(s string) *Node {
	root := NewRoot()
	root.Children = appendText(nil, s)
	return root
}

// appendText appends text runs and breaks for s to nodes.
func appendText(nodes []*Node, s string) []*Node {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			nodes = append(nodes, Break())
		}
		if line != "" {
			nodes = append(nodes, Text(line))
		}
	}
	return nodes
}

// At returns the node addressed by path, or nil if the path is invalid.
func (n *Node) At(path []int) *Node {
	cur := n
	for _, i := range path {
		if cur == nil || cur.Kind != KindElement || i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Text: n.Text, Style: n.Style}
	if n.Image != nil {
		img := *n.Image
		c.Image = &img
	}
	if n.Quote != nil {
		q := *n.Quote
		c.Quote = &q
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// =============================================================================
// TRAVERSAL
// =============================================================================

// Leaf is a leaf node located in document order.
type Leaf struct {
	Node  *Node
	Path  []int
	Start int // Logical offset of the leaf's first character
}

// End returns the logical offset just past the leaf.
func (l Leaf) End() int {
	return l.Start + LogicalLength(l.Node)
}

// Leaves returns every leaf under root in document order.
func Leaves(root *Node) []Leaf {
	var leaves []Leaf
	offset := 0
	var walk func(n *Node, path []int)
	walk = func(n *Node, path []int) {
		for i, c := range n.Children {
			p := make([]int, len(path)+1)
			copy(p, path)
			p[len(path)] = i
			if c.Kind == KindElement {
				walk(c, p)
				continue
			}
			leaves = append(leaves, Leaf{Node: c, Path: p, Start: offset})
			offset += LogicalLength(c)
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return leaves
}

// Serialize walks the tree depth first and returns the serialized logical
// text: text verbatim, breaks as "\n", images and quotes as placeholders.
func Serialize(root *Node) string {
	var b strings.Builder
	for _, l := range Leaves(root) {
		serializeLeaf(&b, l.Node)
	}
	return b.String()
}

// FindImage returns the image token with the given id, or nil.
func FindImage(root *Node, id string) *Node {
	for _, l := range Leaves(root) {
		if l.Node.Kind == KindImage && l.Node.Image.ID == id {
			return l.Node
		}
	}
	return nil
}

// HasImages reports whether any image token is present.
func HasImages(root *Node) bool {
	for _, l := range Leaves(root) {
		if l.Node.Kind == KindImage {
			return true
		}
	}
	return false
}

// Images returns copies of every image payload in document order.
func Images(root *Node) []Image {
	var out []Image
	for _, l := range Leaves(root) {
		if l.Node.Kind == KindImage {
			out = append(out, *l.Node.Image)
		}
	}
	return out
}

// Quotes returns copies of every quote payload in document order.
func Quotes(root *Node) []Quote {
	var out []Quote
	for _, l := range Leaves(root) {
		if l.Node.Kind == KindQuote {
			out = append(out, *l.Node.Quote)
		}
	}
	return out
}
