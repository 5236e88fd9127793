// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Load reads a manifest from source, which is either an http(s) URL or a file path.
func Load(ctx context.Context, source string) (*Manifest, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetchFromServer(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return parse(body)
}

// fetchFromServer retrieves the manifest document over HTTP.
func fetchFromServer(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "edupass-cli/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func parse(body []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("parse manifest JSON: %w", err)
	}

	// Basic validation
	if m.Version == 0 {
		return nil, fmt.Errorf("invalid manifest: missing version field")
	}
	m.HTTP = Defaults().Merge(m.HTTP)
	if err := m.HTTP.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	m.BaseURL = strings.TrimRight(m.BaseURL, "/")
	return &m, nil
}
