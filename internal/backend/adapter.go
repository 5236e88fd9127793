// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the transport used to talk to the remote API.
// It defines the Transport contract the session manager depends on and an HTTP
// implementation that handles JSON serialization, base-URL resolution and
// mapping of non-success responses to errors.
package backend

import "context"

// Transport performs a request/response exchange with the API.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type Transport interface {
	// Post sends body to path (relative to the API base URL) and decodes the
	// response into out. Non-success outcomes are returned as errors.
	Post(ctx context.Context, path string, body, out any) error
}

// Post is a typed convenience wrapper around Transport.Post.
func Post[T any](ctx context.Context, t Transport, path string, body any) (T, error) {
	var out T
	err := t.Post(ctx, path, body, &out)
	return out, err
}
