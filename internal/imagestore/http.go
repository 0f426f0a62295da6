// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// HTTP STORE
// =============================================================================

// Default limits for the HTTP store.
const (
	DefaultRatePerSec = 2.0
	DefaultBurst      = 4
	DefaultTimeout    = 30 * time.Second
)

// HTTPStore talks to an upload endpoint accepting multipart form posts and
// a delete endpoint addressed by image id.
type HTTPStore struct {
	UploadURL string
	DeleteURL string

	client  *http.Client
	limiter *rate.Limiter
}

// uploadResponse is the JSON body returned by the upload and delete endpoints.
type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		s.client = c
	}
}

// WithRateLimit limits requests to perSec with the given burst.
func WithRateLimit(perSec float64, burst int) HTTPOption {
	return func(s *HTTPStore) {
		if perSec <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// NewHTTPStore creates a store for the given endpoints. An empty deleteURL
// derives deletes from uploadURL.
func NewHTTPStore(uploadURL, deleteURL string, opts ...HTTPOption) *HTTPStore {
	if deleteURL == "" {
		deleteURL = uploadURL
	}
	s := &HTTPStore{
		UploadURL: uploadURL,
		DeleteURL: deleteURL,
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRatePerSec), DefaultBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload posts img as the "file" field with the token id in the "id" field.
func (s *HTTPStore) Upload(ctx context.Context, id string, img Image) (string, error) {
	if len(img.Data) > MaxImageSize {
		return "", ErrTooLarge
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("upload %s: %w", id, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("id", id); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	name := img.Name
	if name == "" {
		name = id + extensionFor(img.ContentType)
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := fw.Write(img.Data); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	result, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", id, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload %s: response has no url", id)
	}
	return result.URL, nil
}

// Delete issues DELETE <DeleteURL>/<id>.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	endpoint := strings.TrimRight(s.DeleteURL, "/") + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if _, err := s.do(req); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// do sends req and decodes the JSON envelope.
func (s *HTTPStore) do(req *http.Request) (*uploadResponse, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result uploadResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			log.Printf("imagestore: undecodable response (status %d): %v", resp.StatusCode, err)
			return nil, fmt.Errorf("invalid response (status %d): %w", resp.StatusCode, err)
		}
	} else if resp.StatusCode < 300 {
		result.Success = true
	}

	if resp.StatusCode >= 300 || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
	return &result, nil
}
