// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface provides the editable input surface.
package surface

import (
	"unicode/utf8"
)

// =============================================================================
// CARET POSITION
// =============================================================================

// Position is a caret inside the surface tree.
//
// Path walks child indexes from the root to the container. When the
// container is a text run, Offset is a rune offset inside it; when it is an
// element, Offset is a child index (the caret sits before that child).
type Position struct {
	Path   []int
	Offset int
}

// Clone returns a copy of p that shares no memory with it.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	path := make([]int, len(p.Path))
	copy(path, p.Path)
	return &Position{Path: path, Offset: p.Offset}
}

// =============================================================================
// OFFSET MAPPER
// =============================================================================

// SaveCursorPosition converts a caret into a logical offset by summing the
// logical length of everything that precedes it in document order.
// It returns false when there is no caret or the caret does not address a
// node of root.
func SaveCursorPosition(root *Node, caret *Position) (int, bool) {
	if root == nil || caret == nil {
		return 0, false
	}
	container := root.At(caret.Path)
	if container == nil {
		return 0, false
	}

	total := lengthBefore(root, caret.Path)

	switch container.Kind {
	case KindText:
		n := utf8.RuneCountInString(container.Text)
		return total + clamp(caret.Offset, 0, n), true
	case KindElement:
		k := clamp(caret.Offset, 0, len(container.Children))
		for _, c := range container.Children[:k] {
			total += LogicalLength(c)
		}
		return total, true
	default:
		// A caret addressing a token directly is either before or after it.
		if caret.Offset > 0 {
			total++
		}
		return total, true
	}
}

// RestoreCursorPosition returns the caret for a logical offset.
//
// Inside a text run the caret lands at offset-runStart. For a break or an
// atomic token whose slot ends at offset, the caret lands right after it,
// preferring the start of a following text run. Negative offsets clamp to
// the start and offsets past the end land at the end of the surface.
func RestoreCursorPosition(root *Node, offset int) *Position {
	if root == nil {
		return nil
	}
	if offset < 0 {
		offset = 0
	}

	leaves := Leaves(root)
	for i, l := range leaves {
		if l.Node.Kind == KindText {
			if offset <= l.End() {
				return &Position{Path: l.Path, Offset: offset - l.Start}
			}
			continue
		}

		if offset == l.Start {
			return beforeLeaf(l)
		}
		if offset == l.End() {
			if i+1 < len(leaves) && leaves[i+1].Node.Kind == KindText {
				return &Position{Path: leaves[i+1].Path, Offset: 0}
			}
			return afterLeaf(l)
		}
	}

	return End(root)
}

// End returns the caret at the very end of the surface.
func End(root *Node) *Position {
	if root == nil {
		return nil
	}
	leaves := Leaves(root)
	if len(leaves) == 0 {
		return &Position{Offset: len(root.Children)}
	}
	last := leaves[len(leaves)-1]
	if last.Node.Kind == KindText {
		return &Position{Path: last.Path, Offset: utf8.RuneCountInString(last.Node.Text)}
	}
	return afterLeaf(last)
}

// lengthBefore sums the logical length of every leaf that precedes the
// node addressed by path.
func lengthBefore(n *Node, path []int) int {
	total := 0
	for len(path) > 0 {
		i := path[0]
		for _, c := range n.Children[:i] {
			total += LogicalLength(c)
		}
		n = n.Children[i]
		path = path[1:]
	}
	return total
}

func beforeLeaf(l Leaf) *Position {
	parent := l.Path[:len(l.Path)-1]
	p := make([]int, len(parent))
	copy(p, parent)
	return &Position{Path: p, Offset: l.Path[len(l.Path)-1]}
}

func afterLeaf(l Leaf) *Position {
	pos := beforeLeaf(l)
	pos.Offset++
	return pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
