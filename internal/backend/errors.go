// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the server-provided explanation, when the body carried one.
	Message string
	// Body is the raw (possibly truncated) response body.
	Body string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed: %d %s: %s", e.Method, e.Path, e.StatusCode, text, e.Message)
	}
	return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Path, e.StatusCode, text)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Temporary reports whether retrying later could succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

func newStatusError(method, path string, resp *http.Response, body []byte) *StatusError {
	raw := strings.TrimSpace(string(body))
	if len(raw) > 512 {
		raw = raw[:512] + "..."
	}
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    extractMessage(body),
		Body:       raw,
	}
}

// extractMessage pulls a human readable message out of common error payloads.
func extractMessage(body []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "detail", "msg"} {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	// {"error": {"message": "..."}}
	if nested, ok := raw["error"].(map[string]any); ok {
		if v, ok := nested["message"].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
