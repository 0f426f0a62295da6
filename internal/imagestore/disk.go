// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package imagestore

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"golang.org/x/crypto/blake2b"
)

// =============================================================================
// DISK STORE
// =============================================================================

const refPrefix = "ref-"

// DiskStore keeps images in a local directory. Image bytes are stored once
// under a content key; each token id gets a small ref entry pointing at it,
// so pasting the same image twice shares one file.
type DiskStore struct {
	mu   sync.Mutex
	d    *diskv.Diskv
	base string
}

// NewDiskStore creates a store rooted at basePath.
func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: diskKeyTransform,
			InverseTransform:  diskInverseTransform,
			CacheSizeMax:      4 * 1024 * 1024, // 4MB
		}),
		base: basePath,
	}
}

// diskKeyTransform puts refs and content in separate directories.
func diskKeyTransform(key string) *diskv.PathKey {
	if strings.HasPrefix(key, refPrefix) {
		return &diskv.PathKey{Path: []string{"refs"}, FileName: strings.TrimPrefix(key, refPrefix)}
	}
	return &diskv.PathKey{Path: []string{"blobs"}, FileName: key}
}

func diskInverseTransform(pk *diskv.PathKey) string {
	if len(pk.Path) > 0 && pk.Path[0] == "refs" {
		return refPrefix + pk.FileName
	}
	return pk.FileName
}

// ContentKey returns the content-addressed key for data.
func ContentKey(data []byte, contentType string) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]) + extensionFor(contentType)
}

// Upload stores img and returns a file:// URL for it.
func (s *DiskStore) Upload(ctx context.Context, id string, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(img.Data) > MaxImageSize {
		return "", ErrTooLarge
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid image id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := ContentKey(img.Data, img.ContentType)
	if !s.d.Has(key) {
		if err := s.d.Write(key, img.Data); err != nil {
			return "", fmt.Errorf("failed to write image: %w", err)
		}
	}
	if err := s.d.Write(refPrefix+id, []byte(key)); err != nil {
		return "", fmt.Errorf("failed to write image ref: %w", err)
	}
	return s.urlFor(key), nil
}

// Delete removes the ref for id, and the image bytes once nothing refers
// to them.
func (s *DiskStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref := refPrefix + id
	if !s.d.Has(ref) {
		return ErrNotFound
	}
	key, err := s.d.Read(ref)
	if err != nil {
		return fmt.Errorf("failed to read image ref: %w", err)
	}
	if err := s.d.Erase(ref); err != nil {
		return fmt.Errorf("failed to remove image ref: %w", err)
	}

	if s.referenced(string(key)) {
		return nil
	}
	if err := s.d.Erase(string(key)); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// URL returns the stored URL for id.
func (s *DiskStore) URL(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.d.Read(refPrefix + id)
	if err != nil {
		return "", ErrNotFound
	}
	return s.urlFor(string(key)), nil
}

// referenced reports whether any ref still points at key.
func (s *DiskStore) referenced(key string) bool {
	cancel := make(chan struct{})
	defer close(cancel)
	for k := range s.d.KeysPrefix(refPrefix, cancel) {
		v, err := s.d.Read(k)
		if err == nil && string(v) == key {
			return true
		}
	}
	return false
}

func (s *DiskStore) urlFor(key string) string {
	abs, err := filepath.Abs(filepath.Join(s.base, "blobs", key))
	if err != nil {
		abs = filepath.Join(s.base, "blobs", key)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
