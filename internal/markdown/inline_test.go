// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jeranaias/chatline/internal/surface"
)

func TestParseInlinePreservesText(t *testing.T) {
	lines := []string{
		"",
		"plain text",
		"**bold** and *italic* and `code`",
		"**unclosed bold",
		"`unclosed code",
		"_under_ score",
		"**bold with *italic* inside**",
		"a ** b",
		"ünïcödé **ß**",
		"``",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			root := surface.NewRoot(ParseInline(line)...)
			if got := surface.Serialize(root); got != line {
				t.Errorf("Serialize(ParseInline(%q)) = %q", line, got)
			}
		})
	}
}

func TestParseInlineBold(t *testing.T) {
	got := surface.NewRoot(ParseInline("a **b** c")...)
	want := surface.NewRoot(
		surface.Text("a "),
		surface.Styled(surface.StyleBold,
			surface.Styled(surface.StyleMarker, surface.Text("**")),
			surface.Text("b"),
			surface.Styled(surface.StyleMarker, surface.Text("**")),
		),
		surface.Text(" c"),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseInline mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInlineCode(t *testing.T) {
	nodes := ParseInline("`x*y*`")
	if len(nodes) != 1 || nodes[0].Style != surface.StyleCode {
		t.Fatalf("expected a single code span, got %+v", nodes)
	}
	// Code content is not parsed further.
	inner := nodes[0].Children[1]
	if inner.Kind != surface.KindText || inner.Text != "x*y*" {
		t.Errorf("code content = %+v, want literal text", inner)
	}
}

func TestParseInlineItalicInsideBold(t *testing.T) {
	nodes := ParseInline("**a *b* c**")
	if len(nodes) != 1 || nodes[0].Style != surface.StyleBold {
		t.Fatalf("expected a bold span, got %+v", nodes)
	}
	found := false
	for _, c := range nodes[0].Children {
		if c.Kind == surface.KindElement && c.Style == surface.StyleItalic {
			found = true
		}
	}
	if !found {
		t.Error("italic span inside bold not found")
	}
}

func TestRenderKeepsTokensAndLength(t *testing.T) {
	quote := surface.NewQuote(surface.Quote{Text: "q"})
	root := surface.NewRoot(
		quote,
		surface.Text(" **hi"),
		surface.Text("** there"),
		surface.Break(),
		surface.Text("`c`"),
	)
	before := surface.Serialize(root)
	length := surface.LogicalLength(root)

	out := Render(root)

	if got := surface.Serialize(out); got != before {
		t.Errorf("Render changed text: %q -> %q", before, got)
	}
	if got := surface.LogicalLength(out); got != length {
		t.Errorf("Render changed length: %d -> %d", length, got)
	}
	if out.Children[0] != quote {
		t.Error("quote token must be carried over unchanged")
	}

	// Bold spanning two runs is recognised once they are joined.
	var bold bool
	for _, c := range out.Children {
		if c.Kind == surface.KindElement && c.Style == surface.StyleBold {
			bold = true
		}
	}
	if !bold {
		t.Error("bold span across runs not rendered")
	}
}
