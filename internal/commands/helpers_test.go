// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/jeranaias/chatline/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Commands: []string{"/music", "/rebase"},
		Artists: []catalog.Artist{
			{Name: "Joy Division", Tracks: []catalog.Track{
				{Title: "Atmosphere"},
				{Title: "Disorder"},
				{Title: "Love Will Tear Us Apart"},
			}},
			{Name: "Joy", Tracks: []catalog.Track{{Title: "Sunrise"}}},
			{Name: "New Order", Tracks: []catalog.Track{
				{Title: "Ceremony"},
				{Title: "Temptation"},
			}},
		},
	}
}

func testParser() *Parser {
	return NewParser(NewRegistry(), testCatalog())
}
