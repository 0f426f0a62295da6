// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline/internal/catalog"
)

// =============================================================================
// FLAT CYCLE TESTS
// =============================================================================

func TestFlatCycleNext(t *testing.T) {
	f := NewFlatCycle([]string{"/music", "/rebase"})

	var got []string
	for i := 0; i < 3; i++ {
		name, ok := f.Next()
		require.True(t, ok)
		got = append(got, name)
	}
	assert.Equal(t, []string{"/music", "/rebase", "/music"}, got)
}

func TestFlatCyclePrev(t *testing.T) {
	f := NewFlatCycle([]string{"/music", "/rebase"})

	var got []string
	for i := 0; i < 3; i++ {
		name, ok := f.Prev()
		require.True(t, ok)
		got = append(got, name)
	}
	assert.Equal(t, []string{"/rebase", "/music", "/rebase"}, got)
}

func TestFlatCycleReset(t *testing.T) {
	f := NewFlatCycle([]string{"/music", "/rebase"})

	_, ok := f.Current()
	assert.False(t, ok, "new cycle starts at none")

	f.Next()
	cur, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "/music", cur)
	assert.Equal(t, 0, f.Index())

	f.Reset()
	_, ok = f.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, f.Index())
}

func TestFlatCycleEmpty(t *testing.T) {
	f := NewFlatCycle(nil)

	_, ok := f.Next()
	assert.False(t, ok)
	_, ok = f.Prev()
	assert.False(t, ok)
}

// =============================================================================
// CATALOG CYCLE TESTS
// =============================================================================

func TestCatalogCycleWheelWraps(t *testing.T) {
	var c CatalogCycle
	c.Sync("artist:", []string{"A", "B", "C"}, "")
	require.Equal(t, 0, c.Position())

	var got []int
	for i := 0; i < 4; i++ {
		c.Wheel(120)
		got = append(got, c.Position())
	}
	assert.Equal(t, []int{1, 2, 0, 1}, got)

	c.Wheel(-3)
	c.Wheel(-3)
	assert.Equal(t, 2, c.Position())

	c.Wheel(0)
	assert.Equal(t, 2, c.Position())
}

func TestCatalogCycleSyncKeepsPosition(t *testing.T) {
	var c CatalogCycle
	assert.True(t, c.Sync("track:joy division", []string{"A", "B", "C"}, "b"))
	assert.Equal(t, 1, c.Position(), "starts at the exact match")

	c.Wheel(1)
	assert.False(t, c.Sync("track:joy division", []string{"X"}, ""))
	assert.Equal(t, 2, c.Position())

	assert.True(t, c.Sync("track:new order", []string{"X", "Y"}, "z"))
	assert.Equal(t, 0, c.Position())
	assert.Equal(t, "track:new order", c.Key())
}

func TestCatalogCyclePreview(t *testing.T) {
	var c CatalogCycle
	c.Sync("k", []string{"a", "b", "c", "d", "e", "f", "g", "h"}, "a")

	before, after := c.Preview(DefaultPreviewSize)
	assert.Equal(t, []string{"f", "g", "h"}, before)
	assert.Equal(t, []string{"b", "c", "d"}, after)

	// preview has no effect on the position
	assert.Equal(t, 0, c.Position())
}

func TestCatalogCyclePreviewSmallList(t *testing.T) {
	var c CatalogCycle
	c.Sync("k", []string{"a", "b", "c"}, "b")

	before, after := c.Preview(DefaultPreviewSize)
	assert.Equal(t, []string{"a"}, before)
	assert.Equal(t, []string{"c"}, after)

	// two tracks: the other one is shown once, after the current
	c.Sync("pair", []string{"Atmosphere", "Disorder"}, "Atmosphere")
	before, after = c.Preview(DefaultPreviewSize)
	assert.Empty(t, before)
	assert.Equal(t, []string{"Disorder"}, after)

	// no candidate is repeated for any list shorter than a full preview
	for size := 2; size <= 2*DefaultPreviewSize+1; size++ {
		items := make([]string, size)
		for i := range items {
			items[i] = string(rune('a' + i))
		}
		c.Sync(fmt.Sprintf("size:%d", size), items, "")
		before, after = c.Preview(DefaultPreviewSize)
		seen := map[string]bool{items[0]: true}
		for _, s := range append(append([]string{}, before...), after...) {
			assert.False(t, seen[s], "size %d repeats %q", size, s)
			seen[s] = true
		}
		assert.Len(t, seen, min(size, 2*DefaultPreviewSize+1), "size %d", size)
	}

	c.Sync("single", []string{"only"}, "")
	before, after = c.Preview(DefaultPreviewSize)
	assert.Empty(t, before)
	assert.Empty(t, after)
}

// =============================================================================
// NAVIGATOR TESTS
// =============================================================================

func TestNavigatorWheelArtists(t *testing.T) {
	n := NewNavigator(testParser())

	text, ok := n.Wheel("/music: Jo", 1)
	require.True(t, ok)
	assert.Equal(t, "/music: Joy", text)

	text, ok = n.Wheel(text, 1)
	require.True(t, ok)
	assert.Equal(t, "/music: Joy Division", text, "context survives the emitted text")

	text, _ = n.Wheel(text, -1)
	assert.Equal(t, "/music: Joy", text)
}

func TestNavigatorWheelTracks(t *testing.T) {
	n := NewNavigator(testParser())

	text, ok := n.Wheel("/music: Joy Division – Atmosphere", 1)
	require.True(t, ok)
	assert.Equal(t, "/music: Joy Division – Disorder", text)

	text, _ = n.Wheel(text, 1)
	assert.Equal(t, "/music: Joy Division – Love Will Tear Us Apart", text)

	text, _ = n.Wheel(text, 1)
	assert.Equal(t, "/music: Joy Division – Atmosphere", text)
}

func TestNavigatorWheelOutsideMusic(t *testing.T) {
	n := NewNavigator(testParser())

	for _, in := range []string{"hello", "/re", "/rebase: x", "/music: Nobody"} {
		text, ok := n.Wheel(in, 1)
		assert.False(t, ok, in)
		assert.Equal(t, in, text)
	}
}

func TestNavigatorPreview(t *testing.T) {
	n := NewNavigator(testParser())

	before, after, current := n.Preview("/music: ", DefaultPreviewSize)
	assert.Equal(t, "Joy Division", current)
	assert.Equal(t, []string{"New Order"}, before)
	assert.Equal(t, []string{"Joy"}, after)
}

func TestNavigatorCommandCycle(t *testing.T) {
	n := NewNavigator(testParser())

	name, ok := n.NextCommand("/")
	require.True(t, ok)
	assert.Equal(t, "/music", name)

	name, _ = n.NextCommand(name)
	assert.Equal(t, "/rebase", name)

	// edited text restarts the cycle
	name, _ = n.NextCommand("/reb")
	assert.Equal(t, "/music", name)

	name, _ = n.PrevCommand("")
	assert.Equal(t, "/quit", name)
}

func TestNavigatorWithEmptyCatalog(t *testing.T) {
	n := NewNavigator(NewParser(nil, catalog.Empty()))

	// built-in commands keep the flat cycle alive
	name, ok := n.NextCommand("")
	require.True(t, ok)
	assert.Equal(t, "/music", name)

	// catalog cycles have nothing to walk
	text, ok := n.Wheel("/music: Jo", 1)
	assert.False(t, ok)
	assert.Equal(t, "/music: Jo", text)
}
