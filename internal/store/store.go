// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package store defines the key-value storage abstraction that session state is
// persisted through, plus the in-memory and file-backed implementations.
//
// Other backends live next to the code that owns their dependencies:
// internal/keychain (OS credential store) and internal/store/sqlite.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Storage is a string-keyed persistent store. Every Set is all-or-nothing:
// after it returns, the key holds either the old value or the new one.
// Remove of an absent key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend names accepted by configuration.
const (
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendKeychain, BackendFile, BackendSQLite, BackendMemory}
