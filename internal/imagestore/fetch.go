// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// =============================================================================
// IMAGE REFERENCES
// =============================================================================

// imageURLPattern matches http(s) URLs ending in an image extension,
// optionally followed by a query string or fragment.
var imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(png|jpe?g|gif|webp|bmp|svg)([?#]\S*)?$`)

// IsImageURL reports whether s is an http(s) URL naming an image file.
func IsImageURL(s string) bool {
	return imageURLPattern.MatchString(strings.TrimSpace(s))
}

// IsImagePath reports whether s names an existing local image file.
// Terminals paste dropped files as paths, sometimes quoted or as file URLs.
func IsImagePath(s string) bool {
	p := localPath(s)
	if p == "" {
		return false
	}
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(p))]; !ok {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// IsImageRef reports whether pasted text refers to an image.
func IsImageRef(s string) bool {
	return IsImageURL(s) || IsImagePath(s)
}

// localPath extracts a filesystem path from pasted text, or "".
func localPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	if s == "" || strings.ContainsAny(s, "\n\r") {
		return ""
	}
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		return u.Path
	}
	if strings.Contains(s, "://") {
		return ""
	}
	return s
}

// =============================================================================
// FETCHER
// =============================================================================

// Fetcher turns an image reference (URL or local path) into image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (Image, error)
}

// HTTPFetcher fetches http(s) URLs and reads local files.
type HTTPFetcher struct {
	Client  *http.Client
	MaxSize int64
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		MaxSize: MaxImageSize,
	}
}

// Fetch downloads or reads the image named by ref.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if IsImageURL(ref) || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return f.fetchURL(ctx, ref)
	}
	if p := localPath(ref); p != "" {
		return f.readFile(p)
	}
	return Image{}, fmt.Errorf("fetch %q: %w", ref, ErrNotImage)
}

func (f *HTTPFetcher) fetchURL(ctx context.Context, rawURL string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := f.readLimited(resp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	name := path.Base(req.URL.Path)
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		ct, err = DetectContentType(name, data)
		if err != nil {
			return Image{}, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
	}

	return Image{Name: name, ContentType: ct, Data: data}, nil
}

func (f *HTTPFetcher) readFile(p string) (Image, error) {
	file, err := os.Open(p)
	if err != nil {
		return Image{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	data, err := f.readLimited(file)
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", p, err)
	}

	name := filepath.Base(p)
	ct, err := DetectContentType(name, data)
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", p, err)
	}
	return Image{Name: name, ContentType: ct, Data: data}, nil
}

// readLimited reads at most MaxSize bytes and fails on anything larger.
func (f *HTTPFetcher) readLimited(r io.Reader) ([]byte, error) {
	limit := f.MaxSize
	if limit <= 0 {
		limit = MaxImageSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
