// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package claims derives a display identity from the claims segment of a bearer token.
//
// Decoding never verifies the token signature. The resulting Identity is a
// client-side hint for showing who is logged in; it must never be used as an
// authorization source, since anyone can forge the claims of an unsigned token.
package claims

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "edupass/cli/internal/errors"
)

// DefaultUsername is used when the token carries no usable username claim.
const DefaultUsername = "User"

// Identity is the locally cached projection of selected token claims.
// It is unverified: treat it as display data only.
type Identity struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     *string `json:"role,omitempty"`
}

// RoleName returns the role claim, or "" when the token had none.
func (i Identity) RoleName() string {
	if i.Role == nil {
		return ""
	}
	return *i.Role
}

// Decode extracts an Identity from the middle segment of token.
// Any problem splitting, decoding or parsing the payload yields a DecodeFailed
// error; Decode never panics.
func Decode(token string) (Identity, error) {
	payload, err := Payload(token)
	if err != nil {
		return Identity{}, err
	}
	return fromClaims(payload), nil
}

// Payload decodes the claims segment of token into a JSON object.
func Payload(token string) (map[string]any, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return nil, apperrors.New(apperrors.DecodeFailed, "token has no claims segment")
	}

	raw, err := decodeSegment(segments[1])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.DecodeFailed, "decode claims segment", err)
	}
	if !utf8.Valid(raw) {
		return nil, apperrors.New(apperrors.DecodeFailed, "claims segment is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperrors.Wrap(apperrors.DecodeFailed, "parse claims", err)
	}
	// Anything but whitespace after the first value, including a stray } or ], is an error.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperrors.New(apperrors.DecodeFailed, "trailing data after claims object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.New(apperrors.DecodeFailed, "claims payload is not an object")
	}
	return obj, nil
}

// decodeSegment maps the URL-safe alphabet back to the standard one and decodes
// with optional padding, the way browsers' atob does.
func decodeSegment(seg string) ([]byte, error) {
	s := strings.NewReplacer("-", "+", "_", "/").Replace(seg)
	s = strings.TrimRight(s, "=")
	if len(s)%4 == 1 {
		return nil, base64.CorruptInputError(len(s))
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func fromClaims(c map[string]any) Identity {
	id := int64(0)
	if v, ok := intClaim(c["userId"]); ok {
		id = v
	} else if v, ok := intClaim(c["id"]); ok {
		id = v
	}

	ident := Identity{
		ID:       id,
		Username: DefaultUsername,
	}
	if s, ok := c["username"].(string); ok && s != "" {
		ident.Username = s
	}
	if s, ok := c["email"].(string); ok && s != "" {
		ident.Email = s
	}
	if s, ok := c["role"].(string); ok {
		role := s
		ident.Role = &role
	}
	return ident
}

// intClaim reports a usable, non-zero integer id. Zero, empty and non-integral
// values fall through to the next candidate claim.
func intClaim(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, n != 0
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, false
		}
		return int64(f), f != 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, n != 0
	}
	return 0, false
}
