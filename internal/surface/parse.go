// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import (
	"strings"
)

// =============================================================================
// PLACEHOLDER PARSING
// =============================================================================

// ImageResolver looks up the payload of an image token by id.
type ImageResolver func(id string) (Image, bool)

// Parse rebuilds a surface from serialized text. Image placeholders become
// image tokens when resolve knows the id; quote placeholders consume quotes
// in order. Placeholders that cannot be resolved stay literal text, so
// Serialize(Parse(s, ...)) == s always holds.
func Parse(s string, resolve ImageResolver, quotes []Quote) *Node {
	root := NewRoot()
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			root.Children = appendText(root.Children, plain.String())
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		rest := s[i:]

		if strings.HasPrefix(rest, QuotePlaceholder) && len(quotes) > 0 {
			flush()
			root.Children = append(root.Children, NewQuote(quotes[0]))
			quotes = quotes[1:]
			i += len(QuotePlaceholder)
			continue
		}

		if strings.HasPrefix(rest, ImagePlaceholderPrefix) && resolve != nil {
			if id, n := imageID(rest); n > 0 {
				if img, ok := resolve(id); ok {
					flush()
					img.ID = id
					root.Children = append(root.Children, NewImage(img))
					i += n
					continue
				}
			}
		}

		plain.WriteByte(s[i])
		i++
	}
	flush()

	return root
}

// imageID extracts the id from an image placeholder at the start of s and
// returns it with the placeholder's byte length, or 0 if s does not start
// with a well-formed placeholder.
func imageID(s string) (string, int) {
	body := s[len(ImagePlaceholderPrefix):]
	end := strings.Index(body, ImagePlaceholderSuffix)
	if end <= 0 {
		return "", 0
	}
	id := body[:end]
	if strings.ContainsAny(id, " \t\n") {
		return "", 0
	}
	return id, len(ImagePlaceholderPrefix) + end + len(ImagePlaceholderSuffix)
}
