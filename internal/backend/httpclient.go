// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// TokenSource returns the bearer token to attach to a request, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// HTTP implements Transport over JSON REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:3000/api/v1")
	baseURL string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// userAgent is sent with every request
	userAgent string
	// bearer optionally supplies an Authorization token
	bearer TokenSource
	// requestID generates the X-Request-ID header value
	requestID func() string
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithTimeout sets the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) { h.userAgent = ua }
}

// WithBearer attaches "Authorization: Bearer <token>" when src yields a token.
func WithBearer(src TokenSource) Option {
	return func(h *HTTP) { h.bearer = src }
}

// NewHTTP creates an HTTP transport rooted at baseURL.
func NewHTTP(baseURL string, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "edupass-cli",
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the normalized base URL.
func (h *HTTP) BaseURL() string { return h.baseURL }

// URL resolves path against the base URL.
func (h *HTTP) URL(path string) string {
	if path == "" {
		return h.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.baseURL + path
}

// Post sends body as JSON and decodes a JSON response into out (when non-nil).
func (h *HTTP) Post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL(path), reader)
	if err != nil {
		return err
	}
	if err := h.setStandardHeaders(ctx, req); err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(http.MethodPost, path, resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// setStandardHeaders applies headers shared by every request.
func (h *HTTP) setStandardHeaders(ctx context.Context, req *http.Request) error {
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	if h.requestID != nil {
		req.Header.Set("X-Request-ID", h.requestID())
	}
	if h.bearer != nil {
		token, err := h.bearer(ctx)
		if err != nil {
			return fmt.Errorf("load bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return nil
}
