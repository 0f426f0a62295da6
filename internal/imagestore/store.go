// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package imagestore is the client side of the external image storage used
// for pasted images. Uploads and deletes are keyed by the id of the image
// token that owns the image in the input surface.
package imagestore

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// =============================================================================
// TYPES
// =============================================================================

// Image is an image payload ready for upload.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store uploads and deletes images.
type Store interface {
	// Upload stores img for the token id and returns the public URL.
	Upload(ctx context.Context, id string, img Image) (string, error)

	// Delete removes the image stored for the token id.
	Delete(ctx context.Context, id string) error
}

// Error variables for image storage.
var (
	// ErrNotFound indicates no image is stored for the id.
	ErrNotFound = errors.New("image not found")

	// ErrNotImage indicates the payload is not a recognised image.
	ErrNotImage = errors.New("not an image")

	// ErrNoStore indicates no image store is configured.
	ErrNoStore = errors.New("no image store configured")

	// ErrTooLarge indicates the payload exceeds the size limit.
	ErrTooLarge = errors.New("image too large")
)

// MaxImageSize bounds uploads and fetches.
const MaxImageSize = 20 * 1024 * 1024 // 20MB

// imageExtensions are the file extensions treated as images.
var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
}

// DetectContentType returns the image content type of data, falling back
// to the file extension of name. It returns ErrNotImage for anything else.
func DetectContentType(name string, data []byte) (string, error) {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct, nil
	}
	if ct, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct, nil
	}
	return "", ErrNotImage
}

// extensionFor returns a file extension for a content type.
func extensionFor(contentType string) string {
	for ext, ct := range imageExtensions {
		if ct == contentType && ext != ".jpeg" {
			return ext
		}
	}
	return ".img"
}
