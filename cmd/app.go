// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"edupass/cli/internal/auth"
	"edupass/cli/internal/backend"
	"edupass/cli/internal/config"
	apperrors "edupass/cli/internal/errors"
	"edupass/cli/internal/keychain"
	"edupass/cli/internal/logging"
	"edupass/cli/internal/manifest"
	"edupass/cli/internal/store"
	"edupass/cli/internal/store/sqlite"
	"edupass/cli/internal/xdg"
)

// app bundles everything a command needs. Call close when done.
type app struct {
	cfg     config.Config
	log     logging.Logger
	storage store.Storage
	svc     *auth.Service
	close   func() error
}

// newApp resolves configuration and wires storage, transport and the session
// service together.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.NewTerminal(os.Stderr, cfg.LogLevel)

	if cfg.Manifest != "" {
		m, err := manifest.Load(ctx, cfg.Manifest)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ConfigInvalid, "endpoint manifest", err)
		}
		cfg.Endpoints = cfg.Endpoints.Merge(m.HTTP)
		if m.BaseURL != "" && apiURL == "" && os.Getenv(config.EnvAPIURL) == "" {
			cfg.APIURL = m.BaseURL
		}
		log.Debug(ctx, "manifest applied", "source", cfg.Manifest, "version", m.Version)
	}

	st, closeFn, err := openStorage(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "storage ready", "backend", cfg.Store.Backend, "api_url", cfg.APIURL)

	tr := backend.New(cfg.APIURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithUserAgent("edupass-cli/"+Version),
	)
	svc := auth.NewService(tr, st, cfg.Endpoints, auth.WithLogger(log))

	return &app{cfg: cfg, log: log, storage: st, svc: svc, close: closeFn}, nil
}

// loadConfig applies command-line flags on top of the loaded configuration.
func loadConfig() (config.Config, error) {
	if verbose {
		_ = os.Setenv(config.EnvVerbose, "1")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimSpace(apiURL)
	}
	if storeName != "" {
		cfg.Store.Backend = strings.TrimSpace(storeName)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStorage opens the configured session storage backend.
func openStorage(ctx context.Context, sc config.StoreConfig) (store.Storage, func() error, error) {
	noop := func() error { return nil }

	switch sc.Backend {
	case store.BackendMemory:
		return store.NewMemory(), noop, nil
	case store.BackendFile:
		p, err := statePath(sc.Path, "session.json")
		if err != nil {
			return nil, nil, err
		}
		return store.NewFile(p), noop, nil
	case store.BackendSQLite:
		p, err := statePath(sc.Path, "session.db")
		if err != nil {
			return nil, nil, err
		}
		s, err := sqlite.Open(ctx, p)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.StorageFailed, "open sqlite store", err)
		}
		return s, s.Close, nil
	case store.BackendKeychain, "":
		m, err := keychain.NewManager(keychain.ServiceName)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.StorageFailed, "open keychain", err)
		}
		return m, noop, nil
	}
	return nil, nil, apperrors.New(apperrors.ConfigInvalid, fmt.Sprintf("unknown store backend %q", sc.Backend))
}

func statePath(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}
	return xdg.StatePath(name)
}
