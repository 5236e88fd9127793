// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the Storage contract against any implementation.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "auth_token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "auth_token", "a.b.c"))
	v, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", v)

	require.NoError(t, s.Set(ctx, "auth_token", "d.e.f"))
	v, err = s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "d.e.f", v)

	require.NoError(t, s.Set(ctx, "user", `{"id":1}`))
	require.NoError(t, s.Remove(ctx, "auth_token"))
	_, err = s.Get(ctx, "auth_token")
	require.ErrorIs(t, err, ErrNotFound)

	// removing twice is fine
	require.NoError(t, s.Remove(ctx, "auth_token"))

	v, err = s.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)

	require.NoError(t, s.Set(ctx, "empty", ""))
	v, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestMemory_Contract(t *testing.T) {
	m := NewMemory()
	exerciseStorage(t, m)
	assert.Equal(t, 2, m.Len())
}

func TestFile_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStorage(t, NewFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, NewFile(path).Set(ctx, "auth_token", "tok"))

	v, err := NewFile(path).Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func TestFile_RemoveOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewFile(path).Remove(context.Background(), "user"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "remove of an absent key must not create the file")
}

func TestFile_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f := NewFile(path)
	_, err := f.Get(ctx, "auth_token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, f.Set(ctx, "auth_token", "x"))

	// the corrupt document is left alone
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))
}

func TestFile_NullDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o600))

	f := NewFile(path)
	_, err := f.Get(ctx, "auth_token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NotPanics(t, func() { err = f.Remove(ctx, "auth_token") })
	require.NoError(t, err)

	require.NotPanics(t, func() { err = f.Set(ctx, "auth_token", "a.b.c") })
	require.NoError(t, err)

	v, err := NewFile(path).Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", v)
}

func TestFile_NoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "session.json"))

	require.NoError(t, f.Set(ctx, "a", "1"))
	require.NoError(t, f.Set(ctx, "b", "2"))
	require.NoError(t, f.Remove(ctx, "a"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}
