// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest holds the endpoint registry: the mapping from logical
// operations to relative REST paths. Paths can be overridden by configuration or
// by a manifest document without code changes.
package manifest

import (
	"strings"

	apperrors "edupass/cli/internal/errors"
)

// Default REST paths of the authentication endpoints.
const (
	DefaultLoginPath    = "/users/login"
	DefaultRegisterPath = "/users/register"
)

// Manifest is an endpoint configuration document.
type Manifest struct {
	Version int       `json:"version"`
	BaseURL string    `json:"base_url,omitempty"` // e.g. "https://api.example.com/api/v1"
	HTTP    Endpoints `json:"http"`
}

// Endpoints contains REST API endpoint paths, relative to the base URL.
type Endpoints struct {
	Login    string `json:"login"`    // e.g. "/users/login"
	Register string `json:"register"` // e.g. "/users/register"
}

// Defaults returns the built-in endpoint mapping.
func Defaults() Endpoints {
	return Endpoints{
		Login:    DefaultLoginPath,
		Register: DefaultRegisterPath,
	}
}

// Merge returns e with every non-empty path of override applied on top.
func (e Endpoints) Merge(override Endpoints) Endpoints {
	if p := strings.TrimSpace(override.Login); p != "" {
		e.Login = p
	}
	if p := strings.TrimSpace(override.Register); p != "" {
		e.Register = p
	}
	return e
}

// Validate checks that every path is present and absolute.
func (e Endpoints) Validate() error {
	for name, p := range map[string]string{"login": e.Login, "register": e.Register} {
		if p == "" {
			return apperrors.New(apperrors.ConfigInvalid, name+" path is empty")
		}
		if !strings.HasPrefix(p, "/") {
			return apperrors.New(apperrors.ConfigInvalid, name+" path must start with '/': "+p)
		}
	}
	return nil
}
