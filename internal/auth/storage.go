// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"errors"

	"edupass/cli/internal/claims"
	apperrors "edupass/cli/internal/errors"
	"edupass/cli/internal/logging"
	"edupass/cli/internal/store"
)

// establish persists token, then derives and persists the identity.
// The steps run strictly in that order; a decode failure leaves the token in
// place and is only logged.
func (s *Service) establish(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return apperrors.Wrap(apperrors.StorageFailed, "save token", err)
	}

	ident, err := claims.Decode(token)
	if err != nil {
		s.log.Warn(ctx, "token claims could not be decoded; no identity cached",
			"error", err, "token", logging.MaskSecret(token))
		return nil
	}

	b, err := json.Marshal(ident)
	if err != nil {
		return apperrors.Wrap(apperrors.StorageFailed, "encode identity", err)
	}
	if err := s.store.Set(ctx, KeyUser, string(b)); err != nil {
		return apperrors.Wrap(apperrors.StorageFailed, "save identity", err)
	}
	s.log.Debug(ctx, "session established", "user_id", ident.ID, "username", ident.Username)
	return nil
}

// loadIdentity returns the cached identity, or nil when it is absent or unreadable.
func (s *Service) loadIdentity(ctx context.Context) *claims.Identity {
	raw, err := s.store.Get(ctx, KeyUser)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Debug(ctx, "read identity", "error", err)
		}
		return nil
	}

	var ident *claims.Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return nil
	}
	return ident
}
