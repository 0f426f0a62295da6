// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface provides the editable input surface.
package surface

import (
	"strings"
	"unicode/utf8"
)

// =============================================================================
// OFFSET-ADDRESSED EDITS
// =============================================================================

// InsertText inserts s at the logical offset and returns the offset just
// past the inserted text. Newlines in s become paragraph breaks.
func InsertText(root *Node, offset int, s string) int {
	offset = clamp(offset, 0, LogicalLength(root))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			offset = InsertNode(root, offset, Break())
		}
		if line != "" {
			offset = insertRun(root, offset, line)
		}
	}
	return offset
}

// insertRun inserts newline-free text at offset.
func insertRun(root *Node, offset int, s string) int {
	pos := RestoreCursorPosition(root, offset)
	container := root.At(pos.Path)
	n := utf8.RuneCountInString(s)

	if container.Kind == KindText {
		runes := []rune(container.Text)
		at := clamp(pos.Offset, 0, len(runes))
		container.Text = string(runes[:at]) + s + string(runes[at:])
		return offset + n
	}

	// Element container: extend a preceding text sibling or add a new run.
	k := pos.Offset
	if k > 0 && container.Children[k-1].Kind == KindText {
		container.Children[k-1].Text += s
		return offset + n
	}
	container.Children = insertChild(container.Children, k, Text(s))
	return offset + n
}

// InsertNode inserts a leaf node at the logical offset, splitting a text
// run if needed, and returns the offset just past the node. Offsets never
// land inside an atomic token, so atomic tokens are never split.
func InsertNode(root *Node, offset int, node *Node) int {
	offset = clamp(offset, 0, LogicalLength(root))
	pos := RestoreCursorPosition(root, offset)
	container := root.At(pos.Path)

	if container.Kind == KindText {
		parentPath := pos.Path[:len(pos.Path)-1]
		parent := root.At(parentPath)
		idx := pos.Path[len(pos.Path)-1]

		runes := []rune(container.Text)
		at := clamp(pos.Offset, 0, len(runes))
		left, right := string(runes[:at]), string(runes[at:])

		switch {
		case at == 0:
			parent.Children = insertChild(parent.Children, idx, node)
		case at == len(runes):
			parent.Children = insertChild(parent.Children, idx+1, node)
		default:
			container.Text = left
			parent.Children = insertChild(parent.Children, idx+1, node)
			parent.Children = insertChild(parent.Children, idx+2, &Node{
				Kind:  KindText,
				Text:  right,
				Style: container.Style,
			})
		}
		return offset + LogicalLength(node)
	}

	container.Children = insertChild(container.Children, pos.Offset, node)
	return offset + LogicalLength(node)
}

// DeleteRange removes the logical characters in [from, to). Any break or
// atomic token overlapping the range is removed whole. The removed atomic
// tokens are returned in document order.
func DeleteRange(root *Node, from, to int) []*Node {
	if from > to {
		from, to = to, from
	}
	if from < 0 {
		from = 0
	}
	if from == to {
		return nil
	}

	leaves := Leaves(root)
	var removed []*Node

	// Walk backwards so earlier paths stay valid while siblings disappear.
	for i := len(leaves) - 1; i >= 0; i-- {
		l := leaves[i]
		if l.End() <= from || l.Start >= to {
			continue
		}
		if l.Node.Kind == KindText {
			runes := []rune(l.Node.Text)
			a := clamp(from-l.Start, 0, len(runes))
			b := clamp(to-l.Start, 0, len(runes))
			l.Node.Text = string(runes[:a]) + string(runes[b:])
			continue
		}
		if IsAtomic(l.Node) {
			removed = append([]*Node{l.Node}, removed...)
		}
		RemoveAt(root, l.Path)
	}

	Normalize(root)
	return removed
}

// RemoveAt removes the node addressed by path and returns it.
func RemoveAt(root *Node, path []int) *Node {
	if len(path) == 0 {
		return nil
	}
	parent := root.At(path[:len(path)-1])
	idx := path[len(path)-1]
	if parent == nil || parent.Kind != KindElement || idx < 0 || idx >= len(parent.Children) {
		return nil
	}
	node := parent.Children[idx]
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return node
}

// Normalize drops empty text runs and empty styled elements and merges
// adjacent unstyled text runs. The logical text is unchanged.
func Normalize(root *Node) {
	if root == nil || root.Kind != KindElement {
		return
	}
	out := root.Children[:0]
	for _, c := range root.Children {
		switch c.Kind {
		case KindText:
			if c.Text == "" {
				continue
			}
			if len(out) > 0 {
				prev := out[len(out)-1]
				if prev.Kind == KindText && prev.Style == c.Style {
					prev.Text += c.Text
					continue
				}
			}
		case KindElement:
			Normalize(c)
			if len(c.Children) == 0 {
				continue
			}
		}
		out = append(out, c)
	}
	for i := len(out); i < len(root.Children); i++ {
		root.Children[i] = nil
	}
	root.Children = out
}

func insertChild(children []*Node, at int, n *Node) []*Node {
	at = clamp(at, 0, len(children))
	children = append(children, nil)
	copy(children[at+1:], children[at:])
	children[at] = n
	return children
}
