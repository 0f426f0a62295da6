// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// ImageUploadedMsg reports the outcome of fetching and uploading a pasted
// image for the token ID.
type ImageUploadedMsg struct {
	ID  string
	URL string
	Err error

	// Fallback is the pasted text that produced the token. It replaces the
	// token when the image could not be fetched.
	Fallback string
}

// ImageDeletedMsg reports the outcome of deleting the image for token ID.
type ImageDeletedMsg struct {
	ID  string
	Err error
}
