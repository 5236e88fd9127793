// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth manages the client-side session: it exchanges credentials for a
// bearer token, caches the identity decoded from the token's claims, and answers
// whether a session exists and who it belongs to.
//
// The cached identity is never verified against the token signature. It is a
// display hint only and must not drive authorization decisions.
//
// Service is not safe for concurrent use, and two processes sharing the same
// storage may race on the session keys.
package auth

import (
	"context"
	"errors"

	"edupass/cli/internal/backend"
	"edupass/cli/internal/claims"
	apperrors "edupass/cli/internal/errors"
	"edupass/cli/internal/logging"
	"edupass/cli/internal/manifest"
	"edupass/cli/internal/store"
)

// Service centralizes session operations against the backend and local storage.
type Service struct {
	be        backend.Transport
	store     store.Storage
	endpoints manifest.Endpoints
	log       logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService constructs a Service. Empty endpoint paths fall back to the defaults.
func NewService(be backend.Transport, st store.Storage, endpoints manifest.Endpoints, opts ...Option) *Service {
	s := &Service{
		be:        be,
		store:     st,
		endpoints: manifest.Defaults().Merge(endpoints),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "auth")
	return s
}

// Endpoints returns the endpoint mapping in use.
func (s *Service) Endpoints() manifest.Endpoints { return s.endpoints }

// Login exchanges credentials for a token. When the response carries a token,
// the token and its decoded identity are persisted. Transport errors are
// returned unchanged.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	log := s.log.With("op", "login", "path", s.endpoints.Login)
	log.Debug(ctx, "sending login request", "username", req.Username, "password", "***")

	resp, err := backend.Post[AuthResponse](ctx, s.be, s.endpoints.Login, req)
	if err != nil {
		log.Error(ctx, "login failed", "error", logging.Mask(err.Error()))
		return nil, err
	}
	log.Debug(ctx, "login response", "token", logging.MaskSecret(resp.Token), "message", resp.Message)

	if resp.HasToken() {
		if err := s.establish(ctx, resp.Token); err != nil {
			log.Error(ctx, "persist session", "error", err)
			return nil, err
		}
	}
	return &resp, nil
}

// Register creates an account. If the server also issues a token the session
// is established exactly as for Login; otherwise the response is returned as-is
// and stored state is left untouched.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	log := s.log.With("op", "register", "path", s.endpoints.Register)
	log.Debug(ctx, "sending register request", "username", req.Username, "email", req.Email, "password", "***")

	resp, err := backend.Post[AuthResponse](ctx, s.be, s.endpoints.Register, req)
	if err != nil {
		log.Error(ctx, "register failed", "error", logging.Mask(err.Error()))
		return nil, err
	}
	log.Debug(ctx, "register response", "token", logging.MaskSecret(resp.Token), "message", resp.Message)

	if !resp.HasToken() {
		return &resp, nil
	}
	if err := s.establish(ctx, resp.Token); err != nil {
		log.Error(ctx, "persist session", "error", err)
		return nil, err
	}
	return &resp, nil
}

// Logout removes the token and cached identity. It is safe to call without a session.
func (s *Service) Logout(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.store.Remove(ctx, key); err != nil {
			errs = append(errs, apperrors.Wrap(apperrors.StorageFailed, "remove "+key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Error(ctx, "logout incomplete", "error", err)
		return err
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	token, err := s.store.Get(ctx, KeyToken)
	return err == nil && token != ""
}

// CurrentUser returns the cached identity, or nil. It never decodes the stored token.
func (s *Service) CurrentUser(ctx context.Context) *claims.Identity {
	return s.loadIdentity(ctx)
}

// Token returns the stored credential token for forwarding on later requests.
// It returns store.ErrNotFound when there is no session.
func (s *Service) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", store.ErrNotFound
	}
	return token, nil
}
