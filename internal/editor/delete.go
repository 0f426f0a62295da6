// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// ATOMIC BACKSPACE
// =============================================================================

// HandleKeydown implements the atomic backspace rule. When key is
// "backspace", the caret is collapsed and the previous sibling of the
// caret's container is an image or quote token, the whole token is removed
// and handled is true. A loaded image also yields a delete command for the
// image store. Any other key, or a backspace that does not hit a token, is
// left to the caller (DeleteBackward).
func (e *Editor) HandleKeydown(key string) (handled bool, cmd tea.Cmd) {
	if key != "backspace" {
		return false, nil
	}

	path := e.atomicBeforeCaret()
	if path == nil {
		return false, nil
	}

	start, _ := surface.SaveCursorPosition(e.root, &surface.Position{
		Path:   path[:len(path)-1],
		Offset: path[len(path)-1],
	})
	token := surface.RemoveAt(e.root, path)
	if token == nil {
		return false, nil
	}
	surface.Normalize(e.root)

	// The surface mutation always precedes the async delete.
	e.SetCaretOffset(start)
	e.commit()

	return true, e.deleteCmds([]*surface.Node{token})
}

// atomicBeforeCaret returns the path of the atomic token immediately
// preceding the caret, or nil.
func (e *Editor) atomicBeforeCaret() []int {
	if e.caret == nil {
		return nil
	}
	container := e.root.At(e.caret.Path)
	if container == nil {
		return nil
	}

	switch container.Kind {
	case surface.KindText:
		// Zero-offset text: look at the text run's previous sibling.
		if e.caret.Offset != 0 || len(e.caret.Path) == 0 {
			return nil
		}
		parentPath := e.caret.Path[:len(e.caret.Path)-1]
		parent := e.root.At(parentPath)
		idx := e.caret.Path[len(e.caret.Path)-1]
		if idx == 0 || !surface.IsAtomic(parent.Children[idx-1]) {
			return nil
		}
		return appendPath(parentPath, idx-1)

	case surface.KindElement:
		k := e.caret.Offset
		if k <= 0 || k > len(container.Children) || !surface.IsAtomic(container.Children[k-1]) {
			return nil
		}
		return appendPath(e.caret.Path, k-1)

	default:
		// Caret addressing a token directly, after it.
		if surface.IsAtomic(container) && e.caret.Offset > 0 && len(e.caret.Path) > 0 {
			return e.caret.Clone().Path
		}
		return nil
	}
}

func appendPath(path []int, i int) []int {
	p := make([]int, len(path)+1)
	copy(p, path)
	p[len(path)] = i
	return p
}

// =============================================================================
// CHARACTER DELETION
// =============================================================================

// DeleteBackward removes the logical character before the caret. A token
// there is removed whole; loaded images yield a delete command.
func (e *Editor) DeleteBackward() tea.Cmd {
	off := e.CaretOffset()
	if off == 0 {
		return nil
	}
	removed := surface.DeleteRange(e.root, off-1, off)
	e.SetCaretOffset(off - 1)
	e.commit()
	return e.deleteCmds(removed)
}

// DeleteForward removes the logical character after the caret.
func (e *Editor) DeleteForward() tea.Cmd {
	off := e.CaretOffset()
	if off >= e.Len() {
		return nil
	}
	removed := surface.DeleteRange(e.root, off, off+1)
	e.SetCaretOffset(off)
	e.commit()
	return e.deleteCmds(removed)
}

// DeleteWordBackward removes the word before the caret along with any
// spaces between it and the caret. Tokens count as one word each.
func (e *Editor) DeleteWordBackward() tea.Cmd {
	off := e.CaretOffset()
	if off == 0 {
		return nil
	}
	from := wordStart(surface.Leaves(e.root), off)
	removed := surface.DeleteRange(e.root, from, off)
	e.SetCaretOffset(from)
	e.commit()
	return e.deleteCmds(removed)
}

// wordStart finds where the word ending at off begins.
func wordStart(leaves []surface.Leaf, off int) int {
	// Flatten to one rune per logical character; tokens become a marker.
	const tokenRune = '￼'
	var chars []rune
	for _, l := range leaves {
		if l.Node.Kind == surface.KindText {
			chars = append(chars, []rune(l.Node.Text)...)
			continue
		}
		if l.Node.Kind == surface.KindBreak {
			chars = append(chars, '\n')
			continue
		}
		chars = append(chars, tokenRune)
	}
	if off > len(chars) {
		off = len(chars)
	}

	i := off
	for i > 0 && (chars[i-1] == ' ' || chars[i-1] == '\t') {
		i--
	}
	if i > 0 && (chars[i-1] == tokenRune || chars[i-1] == '\n') {
		return i - 1
	}
	for i > 0 && chars[i-1] != ' ' && chars[i-1] != '\t' && chars[i-1] != '\n' && chars[i-1] != tokenRune {
		i--
	}
	return i
}

// =============================================================================
// IMAGE DELETES
// =============================================================================

// deleteCmds returns one store delete per removed loaded image.
func (e *Editor) deleteCmds(removed []*surface.Node) tea.Cmd {
	if e.store == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, n := range removed {
		if n.Kind == surface.KindImage && n.Image.Loaded {
			cmds = append(cmds, e.deleteCmd(n.Image.ID))
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (e *Editor) deleteCmd(id string) tea.Cmd {
	store, timeout := e.store, e.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ImageDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// ApplyDelete records the outcome of an image delete. Failures are logged
// and otherwise ignored.
func (e *Editor) ApplyDelete(msg ImageDeletedMsg) {
	if msg.Err != nil {
		log.Printf("editor: delete image %s failed: %v", msg.ID, msg.Err)
		return
	}
	if img, ok := e.images[msg.ID]; ok {
		img.Loaded = false
		img.URL = ""
		e.images[msg.ID] = img
	}
}
