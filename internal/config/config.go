// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session itself goes to the
// configured storage backend.
//
// Precedence, lowest to highest: built-in defaults, config.json, .env, process
// environment, then command-line flags (applied by the caller).
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/joho/godotenv"

	apperrors "edupass/cli/internal/errors"
	"edupass/cli/internal/manifest"
	"edupass/cli/internal/store"
	"edupass/cli/internal/xdg"
)

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:3000/api/v1"
	DefaultLogLevel = "info"
	DefaultTimeout  = 10 * time.Second
)

// Environment variables that override the config file.
const (
	EnvAPIURL       = "EDUPASS_API_URL"
	EnvStore        = "EDUPASS_STORE"
	EnvStorePath    = "EDUPASS_STORE_PATH"
	EnvLogLevel     = "EDUPASS_LOG_LEVEL"
	EnvLoginPath    = "EDUPASS_LOGIN_PATH"
	EnvRegisterPath = "EDUPASS_REGISTER_PATH"
	EnvTimeout      = "EDUPASS_TIMEOUT"
	EnvManifest     = "EDUPASS_MANIFEST"
	EnvVerbose      = "EDUPASS_VERBOSE"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL    string             `json:"api_url"`
	LogLevel  string             `json:"log_level"`
	Timeout   string             `json:"timeout"`            // Go duration, e.g. "10s"
	Manifest  string             `json:"manifest,omitempty"` // file path or http(s) URL
	Store     StoreConfig        `json:"store"`
	Endpoints manifest.Endpoints `json:"endpoints"`
}

// StoreConfig selects where session state is persisted.
type StoreConfig struct {
	Backend string `json:"backend"`
	// Path overrides the file or sqlite location; empty means the XDG state dir.
	Path string `json:"path,omitempty"`
}

// Validate implements validation.Validatable.
func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.Required, validation.In(backendNames()...)),
	)
}

func backendNames() []interface{} {
	out := make([]interface{}, len(store.Backends))
	for i, b := range store.Backends {
		out[i] = b
	}
	return out
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		LogLevel:  DefaultLogLevel,
		Timeout:   DefaultTimeout.String(),
		Store:     StoreConfig{Backend: store.BackendKeychain},
		Endpoints: manifest.Defaults(),
	}
}

// DefaultPath returns the path to the config file.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration from path (DefaultPath when empty), then applies
// .env and environment overrides and validates the result. A missing file
// yields defaults.
func Load(path string) (Config, error) {
	c, err := readFile(path)
	if err != nil {
		return c, err
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()
	c.ApplyEnv()

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func readFile(path string) (Config, error) {
	c := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return c, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, apperrors.Wrap(apperrors.ConfigInvalid, "parse "+path, err)
	}
	c.Endpoints = manifest.Defaults().Merge(c.Endpoints)
	return c, nil
}

// ApplyEnv overrides settings from EDUPASS_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, EnvAPIURL)
	set(&c.Store.Backend, EnvStore)
	set(&c.Store.Path, EnvStorePath)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Endpoints.Login, EnvLoginPath)
	set(&c.Endpoints.Register, EnvRegisterPath)
	set(&c.Timeout, EnvTimeout)
	set(&c.Manifest, EnvManifest)

	if Verbose() {
		c.LogLevel = "debug"
	}
}

// Verbose reports whether EDUPASS_VERBOSE is set to a truthy value.
func Verbose() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvVerbose))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Validate reports every unusable setting as a ConfigInvalid error.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Timeout, validation.By(validDuration)),
		validation.Field(&c.Store),
		validation.Field(&c.Endpoints),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ConfigInvalid, "invalid configuration", err)
	}
	return nil
}

func validDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 10s")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// RequestTimeout returns the parsed timeout, or DefaultTimeout when unset.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Save writes configuration to path (DefaultPath when empty) with 0600 permissions.
func Save(path string, c Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
