// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a bounded undo/redo stack over text snapshots.
package history

// DefaultMaxHistory is the number of snapshots kept when no cap is given.
const DefaultMaxHistory = 50

// =============================================================================
// STACK
// =============================================================================

// Stack is a bounded, linear undo/redo history.
//
// entries[index] is always the current snapshot. When a save would exceed
// the cap the oldest snapshot is dropped and index stays where it is, so the
// window slides forward and the oldest undo step is forgotten.
type Stack struct {
	entries []string
	index   int
	max     int
}

// New creates a stack holding a single empty snapshot.
// A cap below 1 falls back to DefaultMaxHistory.
func New(max int) *Stack {
	if max < 1 {
		max = DefaultMaxHistory
	}
	return &Stack{
		entries: []string{""},
		max:     max,
	}
}

// Save records text as the newest snapshot.
// Saving the current snapshot again is a no-op and returns false.
// Any redo tail is discarded.
func (s *Stack) Save(text string) bool {
	if text == s.entries[s.index] {
		return false
	}

	s.entries = append(s.entries[:s.index+1], text)

	if len(s.entries) > s.max {
		// Slide the window: drop the oldest entry, keep index in place.
		s.entries[0] = ""
		s.entries = s.entries[1:]
		return true
	}

	s.index++
	return true
}

// Undo steps back one snapshot. It returns false at the oldest snapshot.
func (s *Stack) Undo() (string, bool) {
	if s.index == 0 {
		return s.entries[0], false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo steps forward one snapshot. It returns false at the newest snapshot.
func (s *Stack) Redo() (string, bool) {
	if s.index == len(s.entries)-1 {
		return s.entries[s.index], false
	}
	s.index++
	return s.entries[s.index], true
}

// Reset discards all history and starts over from text.
func (s *Stack) Reset(text string) {
	s.entries = []string{text}
	s.index = 0
}

// Current returns the snapshot at the current index.
func (s *Stack) Current() string {
	return s.entries[s.index]
}

// CanUndo reports whether Undo would move.
func (s *Stack) CanUndo() bool {
	return s.index > 0
}

// CanRedo reports whether Redo would move.
func (s *Stack) CanRedo() bool {
	return s.index < len(s.entries)-1
}

// Len returns the number of snapshots held.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Index returns the current position in the stack.
func (s *Stack) Index() int {
	return s.index
}

// Max returns the cap.
func (s *Stack) Max() int {
	return s.max
}

// Entries returns a copy of the snapshots, oldest first.
func (s *Stack) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Contains reports whether text is one of the retained snapshots.
func (s *Stack) Contains(text string) bool {
	for _, e := range s.entries {
		if e == text {
			return true
		}
	}
	return false
}
