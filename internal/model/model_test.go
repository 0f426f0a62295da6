// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// OUTGOING TESTS
// =============================================================================

func TestOutgoing_JSON(t *testing.T) {
	tests := []struct {
		name     string
		out      Outgoing
		contains []string
		absent   []string
	}{
		{
			name:     "plain text",
			out:      Outgoing{Text: "hello"},
			contains: []string{`"text":"hello"`},
			absent:   []string{"metadata"},
		},
		{
			name: "music command",
			out: Outgoing{Text: "/music: Joy Division – Atmosphere", Metadata: &Metadata{
				Type: MetadataMusic, Artist: "Joy Division", Track: "Atmosphere",
				AudioURL: "https://audio.example/Joy%20Division/Atmosphere.mp3",
			}},
			contains: []string{`"type":"music"`, `"artist":"Joy Division"`, `"audioUrl":`},
		},
		{
			name: "quotes and images",
			out: Outgoing{Text: "__QUOTE_TAG__ hi __IMAGE_TAG_a__", Metadata: &Metadata{
				Type:   MetadataImages,
				Quotes: []QuoteRef{{MessageID: "m1", Author: "ann", Text: "quoted"}},
				Images: []ImageRef{{ID: "a", URL: "https://img.example/a.png"}},
			}},
			contains: []string{`"messageId":"m1"`, `"images":[{"id":"a"`, `"type":"images"`},
			absent:   []string{"artist"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.out.JSON()
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}
			s := string(data)
			for _, want := range tc.contains {
				if !strings.Contains(s, want) {
					t.Errorf("JSON() = %s, want to contain %s", s, want)
				}
			}
			for _, bad := range tc.absent {
				if strings.Contains(s, bad) {
					t.Errorf("JSON() = %s, must not contain %s", s, bad)
				}
			}
			var back Outgoing
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if back.Text != tc.out.Text {
				t.Errorf("text = %q, want %q", back.Text, tc.out.Text)
			}
		})
	}
}

func TestOutgoing_IsEmpty(t *testing.T) {
	if !(Outgoing{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
	if !(Outgoing{Metadata: &Metadata{}}).IsEmpty() {
		t.Error("empty metadata should be empty")
	}
	if (Outgoing{Metadata: &Metadata{Images: []ImageRef{{ID: "x"}}}}).IsEmpty() {
		t.Error("image-only message should not be empty")
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AddOutgoing(t *testing.T) {
	tr := NewTranscript()
	msg := tr.AddOutgoing("ann", Outgoing{Text: "hi", Metadata: &Metadata{}})

	if msg.Metadata != nil {
		t.Error("empty metadata should not be attached")
	}
	if msg.Role != RoleUser || msg.Author != "ann" {
		t.Errorf("unexpected message %+v", msg)
	}
	if tr.MessageByID(msg.ID) != msg {
		t.Error("MessageByID did not find the message")
	}
}

func TestTranscript_Quotable(t *testing.T) {
	tr := NewTranscript()
	if tr.LastQuotable() != nil {
		t.Error("empty transcript has nothing to quote")
	}

	first := tr.AddOutgoing("ann", Outgoing{Text: "one"})
	tr.AddSystemMessage("joined")

	if got := tr.LastQuotable(); got != first {
		t.Errorf("LastQuotable() = %v, want first message", got)
	}

	ref := first.QuoteRef()
	if ref.MessageID != first.ID || ref.Author != "ann" || ref.Text != "one" {
		t.Errorf("QuoteRef() = %+v", ref)
	}
	if got := tr.QuotableBefore(1); got != first {
		t.Errorf("QuotableBefore(1) = %v", got)
	}
	if got := tr.QuotableBefore(0); got != nil {
		t.Errorf("QuotableBefore(0) = %v, want nil", got)
	}
}

func TestTranscript_Prune(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < MaxMessages+10; i++ {
		tr.AddMessage(NewMessage(RolePeer, "bob", "x"))
	}
	if tr.Len() != MaxMessages {
		t.Errorf("Len() = %d, want %d", tr.Len(), MaxMessages)
	}
}

func TestRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	m := NewMessage(RolePeer, "", "x")
	if m.DisplayAuthor() != "Peer" {
		t.Errorf("DisplayAuthor() = %q", m.DisplayAuthor())
	}
}
