// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "edupass/cli/internal/claims"

// Storage keys of the session state.
const (
	// KeyToken holds the raw credential token.
	KeyToken = "auth_token"
	// KeyUser holds the decoded identity as JSON.
	KeyUser = "user"
)

// LoginRequest is the body sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body sent to the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what the login and registration endpoints return.
// Token is empty when the server did not establish a session, e.g. when a
// registration still awaits email verification.
type AuthResponse struct {
	Token   string           `json:"token"`
	Message string           `json:"message,omitempty"`
	User    *claims.Identity `json:"user,omitempty"`
}

// HasToken reports whether the response establishes a session.
func (r *AuthResponse) HasToken() bool {
	return r != nil && r.Token != ""
}
