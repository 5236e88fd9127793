// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain persists session entries in the OS keychain/credential store.
//
// The Manager implements store.Storage, so the session manager can keep its
// token and cached identity in macOS Keychain, Windows Credential Manager or the
// Linux Secret Service without knowing which one is in use. On macOS the native
// `security` command is preferred and the keyring library is the fallback.
package keychain

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"edupass/cli/internal/store"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "edupass"

// errKeyNotFound is returned by native backends for missing entries.
var errKeyNotFound = errors.New("key not found")

// Manager provides thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

var _ store.Storage = (*Manager)(nil)

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewManager creates a keychain manager for service, using the native macOS
// backend when available and the OS keyring otherwise.
func NewManager(service string) (*Manager, error) {
	if service == "" {
		service = ServiceName
	}

	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(service)
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing(service)
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only.
// There is deliberately no encrypted-file fallback: use the file store for that.
func openRing(service string) (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass requires the 'pass' utility: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS; use --store file")
	}

	cfg := keyring.Config{
		ServiceName:              service,
		AllowedBackends:          allowedBackends,
		PassPrefix:               service,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  service,
		KWalletAppID:             service,
		KWalletFolder:            service,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = service
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg && pass init <gpg-key-id>) or use --store file")
		}
		return nil, err
	}
	return ring, nil
}

// Get returns the value stored under key, or store.ErrNotFound.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(ctx, key)
		if errors.Is(err, errKeyNotFound) {
			return "", store.ErrNotFound
		}
		return v, err
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

// Set stores value under key, replacing any previous value.
func (m *Manager) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(ctx, key, value)
	}
	return m.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: ServiceName + " " + key,
	})
}

// Remove deletes key. A missing key is not an error.
func (m *Manager) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(ctx, key)
	}
	err := m.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
