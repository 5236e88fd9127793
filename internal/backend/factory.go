// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates the default Transport for baseURL.
func New(baseURL string, opts ...Option) Transport {
	return NewHTTP(baseURL, opts...)
}
