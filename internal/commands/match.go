// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// MATCHING RULE
// =============================================================================

// Match is the result of looking a query up in an ordered list of names.
type Match struct {
	// Name is the matched entry as spelled in the list.
	Name string

	// Index is the entry's position in the list.
	Index int

	// Complete is true when the query equals Name, ignoring case.
	Complete bool

	// Hint is the part of Name not yet typed.
	Hint string
}

// FirstMatch returns the first name, in list order, that starts with query
// ignoring case. It is not a best-match search: with names
// ["Joy Division", "Joy"] the query "Jo" matches "Joy Division", and so
// does the query "Joy". An empty query matches nothing.
func FirstMatch(names []string, query string) (Match, bool) {
	if query == "" {
		return Match{}, false
	}
	q := []rune(norm.NFC.String(query))
	for i, name := range names {
		rest, ok := trimPrefixFold([]rune(norm.NFC.String(name)), q)
		if !ok {
			continue
		}
		return Match{
			Name:     name,
			Index:    i,
			Complete: len(rest) == 0,
			Hint:     string(rest),
		}, true
	}
	return Match{}, false
}

// AllMatches returns every name that starts with query ignoring case, in
// list order. An empty query matches every name.
func AllMatches(names []string, query string) []Match {
	q := []rune(norm.NFC.String(query))
	var out []Match
	for i, name := range names {
		rest, ok := trimPrefixFold([]rune(norm.NFC.String(name)), q)
		if !ok {
			continue
		}
		out = append(out, Match{Name: name, Index: i, Complete: len(rest) == 0, Hint: string(rest)})
	}
	return out
}

// IndexOfFold returns the index of the name equal to s ignoring case, or -1.
func IndexOfFold(names []string, s string) int {
	s = norm.NFC.String(s)
	for i, name := range names {
		if strings.EqualFold(norm.NFC.String(name), s) {
			return i
		}
	}
	return -1
}

// trimPrefixFold reports whether name starts with prefix ignoring case and
// returns the remaining runes of name.
func trimPrefixFold(name, prefix []rune) ([]rune, bool) {
	if len(prefix) > len(name) {
		return nil, false
	}
	if !strings.EqualFold(string(name[:len(prefix)]), string(prefix)) {
		return nil, false
	}
	return name[len(prefix):], true
}
