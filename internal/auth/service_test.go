// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupass/cli/internal/backend"
	"edupass/cli/internal/claims"
	apperrors "edupass/cli/internal/errors"
	"edupass/cli/internal/manifest"
	"edupass/cli/internal/store"
)

type call struct {
	path string
	body any
}

// fakeTransport replies with a canned response or error and records calls.
type fakeTransport struct {
	resp  any
	err   error
	calls []call
}

func (f *fakeTransport) Post(_ context.Context, path string, body, out any) error {
	f.calls = append(f.calls, call{path: path, body: body})
	if f.err != nil {
		return f.err
	}
	b, err := json.Marshal(f.resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// failingStore wraps a Storage and fails writes to the configured keys.
type failingStore struct {
	store.Storage
	failSet    map[string]bool
	failRemove map[string]bool
}

var errDisk = errors.New("disk full")

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.failSet[key] {
		return errDisk
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *failingStore) Remove(ctx context.Context, key string) error {
	if f.failRemove[key] {
		return errDisk
	}
	return f.Storage.Remove(ctx, key)
}

func mintToken(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func strPtr(s string) *string { return &s }

func newService(tr backend.Transport, st store.Storage) *Service {
	return NewService(tr, st, manifest.Endpoints{})
}

func TestLogin_EstablishesSession(t *testing.T) {
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{
		"userId": 42, "username": "linh", "email": "linh@example.com", "role": "student",
	})
	tr := &fakeTransport{resp: AuthResponse{Token: token, Message: "welcome back"}}
	st := store.NewMemory()
	svc := newService(tr, st)

	resp, err := svc.Login(ctx, LoginRequest{Username: "linh", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, token, resp.Token)
	assert.Equal(t, "welcome back", resp.Message)

	require.Len(t, tr.calls, 1)
	assert.Equal(t, manifest.DefaultLoginPath, tr.calls[0].path)
	assert.Equal(t, LoginRequest{Username: "linh", Password: "s3cret"}, tr.calls[0].body)

	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Equal(t, &claims.Identity{ID: 42, Username: "linh", Email: "linh@example.com", Role: strPtr("student")},
		svc.CurrentUser(ctx))

	stored, err := st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	got, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestLogin_IdentityDefaults(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   claims.Identity
	}{
		{
			name:   "id claim used when userId missing",
			claims: jwt.MapClaims{"id": 7, "username": "an"},
			want:   claims.Identity{ID: 7, Username: "an"},
		},
		{
			name:   "no id claims",
			claims: jwt.MapClaims{"username": "an"},
			want:   claims.Identity{ID: 0, Username: "an"},
		},
		{
			name:   "no username",
			claims: jwt.MapClaims{"userId": 3},
			want:   claims.Identity{ID: 3, Username: claims.DefaultUsername},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tr := &fakeTransport{resp: AuthResponse{Token: mintToken(t, tt.claims)}}
			svc := newService(tr, store.NewMemory())

			_, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
			require.NoError(t, err)
			assert.Equal(t, &tt.want, svc.CurrentUser(ctx))
		})
	}
}

func TestLoginAndRegister_MalformedClaimsKeepToken(t *testing.T) {
	for _, op := range []string{"login", "register"} {
		t.Run(op, func(t *testing.T) {
			ctx := context.Background()
			const token = "header.%%%not-base64%%%.sig"
			tr := &fakeTransport{resp: AuthResponse{Token: token}}
			st := store.NewMemory()
			svc := newService(tr, st)

			var err error
			if op == "login" {
				_, err = svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
			} else {
				_, err = svc.Register(ctx, RegisterRequest{Username: "u", Email: "u@example.com", Password: "p"})
			}
			require.NoError(t, err)

			assert.True(t, svc.IsAuthenticated(ctx))
			assert.Nil(t, svc.CurrentUser(ctx))
			_, err = st.Get(ctx, KeyUser)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestLogin_EmptyTokenLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransport{resp: AuthResponse{Message: "try again"}}
	st := store.NewMemory()
	svc := newService(tr, st)

	resp, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "try again", resp.Message)
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Zero(t, st.Len())
}

func TestRegister_WithToken(t *testing.T) {
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{"userId": 5, "username": "hoa", "email": "hoa@example.com"})
	tr := &fakeTransport{resp: AuthResponse{Token: token, Message: "registered"}}
	svc := newService(tr, store.NewMemory())

	req := RegisterRequest{Username: "hoa", Email: "hoa@example.com", Password: "p"}
	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "registered", resp.Message)

	require.Len(t, tr.calls, 1)
	assert.Equal(t, manifest.DefaultRegisterPath, tr.calls[0].path)
	assert.Equal(t, req, tr.calls[0].body)

	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Equal(t, &claims.Identity{ID: 5, Username: "hoa", Email: "hoa@example.com"}, svc.CurrentUser(ctx))
}

func TestRegister_NoTokenPreservesPriorState(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
	}{
		{name: "logged out", loggedIn: false},
		{name: "logged in", loggedIn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := store.NewMemory()
			var priorUser *claims.Identity

			if tt.loggedIn {
				prior := newService(&fakeTransport{resp: AuthResponse{
					Token: mintToken(t, jwt.MapClaims{"userId": 1, "username": "old"}),
				}}, st)
				_, err := prior.Login(ctx, LoginRequest{Username: "old", Password: "p"})
				require.NoError(t, err)
				priorUser = prior.CurrentUser(ctx)
			}
			priorToken, _ := st.Get(ctx, KeyToken)

			want := AuthResponse{
				Message: "check your inbox to verify your email",
				User:    &claims.Identity{ID: 99, Username: "new", Email: "new@example.com"},
			}
			svc := newService(&fakeTransport{resp: want}, st)

			resp, err := svc.Register(ctx, RegisterRequest{Username: "new", Email: "new@example.com", Password: "p"})
			require.NoError(t, err)
			assert.Equal(t, &want, resp)

			assert.Equal(t, tt.loggedIn, svc.IsAuthenticated(ctx))
			assert.Equal(t, priorUser, svc.CurrentUser(ctx))
			token, _ := st.Get(ctx, KeyToken)
			assert.Equal(t, priorToken, token)
		})
	}
}

func TestLoginAndRegister_TransportErrorReturnedUnchanged(t *testing.T) {
	ctx := context.Background()
	transportErr := &backend.StatusError{Method: http.MethodPost, Path: "/users/login", StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}
	tr := &fakeTransport{err: transportErr}
	st := store.NewMemory()
	svc := newService(tr, st)

	resp, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "wrong"})
	assert.Nil(t, resp)
	assert.Same(t, transportErr, err)

	resp, err = svc.Register(ctx, RegisterRequest{Username: "u", Email: "u@example.com", Password: "p"})
	assert.Nil(t, resp)
	assert.Same(t, transportErr, err)

	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Zero(t, st.Len())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransport{resp: AuthResponse{Token: mintToken(t, jwt.MapClaims{"userId": 1})}}
	st := store.NewMemory()
	svc := newService(tr, st)

	_, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	require.True(t, svc.IsAuthenticated(ctx))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Nil(t, svc.CurrentUser(ctx))
	assert.Zero(t, st.Len())

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Nil(t, svc.CurrentUser(ctx))
	assert.Zero(t, st.Len())

	_, err = svc.Token(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_JoinsRemovalErrors(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{
		Storage:    store.NewMemory(),
		failRemove: map[string]bool{KeyToken: true, KeyUser: true},
	}
	svc := newService(&fakeTransport{}, st)

	err := svc.Logout(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.True(t, apperrors.Is(err, apperrors.StorageFailed))
	assert.Contains(t, err.Error(), KeyToken)
	assert.Contains(t, err.Error(), KeyUser)
}

func TestLogin_StorageFailure(t *testing.T) {
	tests := []struct {
		name      string
		failKey   string
		wantToken bool
	}{
		{name: "token write fails", failKey: KeyToken, wantToken: false},
		{name: "identity write fails", failKey: KeyUser, wantToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := &failingStore{Storage: store.NewMemory(), failSet: map[string]bool{tt.failKey: true}}
			tr := &fakeTransport{resp: AuthResponse{Token: mintToken(t, jwt.MapClaims{"userId": 1})}}
			svc := newService(tr, st)

			resp, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Equal(t, apperrors.StorageFailed, apperrors.KindOf(err))
			assert.ErrorIs(t, err, errDisk)

			assert.Equal(t, tt.wantToken, svc.IsAuthenticated(ctx))
			assert.Nil(t, svc.CurrentUser(ctx))
		})
	}
}

func TestQueries_Idempotent(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransport{resp: AuthResponse{Token: mintToken(t, jwt.MapClaims{"userId": 8, "username": "mai"})}}
	svc := newService(tr, store.NewMemory())

	assert.False(t, svc.IsAuthenticated(ctx))
	assert.False(t, svc.IsAuthenticated(ctx))
	assert.Nil(t, svc.CurrentUser(ctx))
	assert.Nil(t, svc.CurrentUser(ctx))

	_, err := svc.Login(ctx, LoginRequest{Username: "mai", Password: "p"})
	require.NoError(t, err)

	first := svc.CurrentUser(ctx)
	for range 3 {
		assert.True(t, svc.IsAuthenticated(ctx))
		assert.Equal(t, first, svc.CurrentUser(ctx))
	}
}

func TestCurrentUser_UnreadableIdentity(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, KeyToken, "a.b.c"))
	require.NoError(t, st.Set(ctx, KeyUser, "{not json"))
	svc := newService(&fakeTransport{}, st)

	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Nil(t, svc.CurrentUser(ctx))
}

func TestIsAuthenticated_EmptyToken(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, KeyToken, ""))
	svc := newService(&fakeTransport{}, st)

	assert.False(t, svc.IsAuthenticated(ctx))
	_, err := svc.Token(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNewService_EndpointOverrides(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransport{resp: AuthResponse{}}
	svc := NewService(tr, store.NewMemory(), manifest.Endpoints{Login: "/auth/sign-in"})

	assert.Equal(t, manifest.Endpoints{Login: "/auth/sign-in", Register: manifest.DefaultRegisterPath}, svc.Endpoints())

	_, err := svc.Login(ctx, LoginRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Username: "u", Email: "u@example.com", Password: "p"})
	require.NoError(t, err)

	require.Len(t, tr.calls, 2)
	assert.Equal(t, "/auth/sign-in", tr.calls[0].path)
	assert.Equal(t, manifest.DefaultRegisterPath, tr.calls[1].path)
}

func TestLogin_OverHTTP(t *testing.T) {
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{"userId": 12, "username": "quang", "email": "q@example.com"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResponse{Token: token})
	}))
	defer srv.Close()

	svc := newService(backend.New(srv.URL+"/api/v1"), store.NewMemory())

	_, err := svc.Login(ctx, LoginRequest{Username: "quang", Password: "wrong"})
	var se *backend.StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Unauthorized())
	assert.Equal(t, "invalid credentials", se.Message)
	assert.False(t, svc.IsAuthenticated(ctx))

	_, err = svc.Login(ctx, LoginRequest{Username: "quang", Password: "correct"})
	require.NoError(t, err)
	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Equal(t, &claims.Identity{ID: 12, Username: "quang", Email: "q@example.com"}, svc.CurrentUser(ctx))
}
