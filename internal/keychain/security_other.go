// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import (
	"context"
	"errors"
)

var errNoSecurityCommand = errors.New("keychain: security command is only available on macOS")

// securityBackend is never constructed outside macOS; NewManager uses the keyring there.
type securityBackend struct{}

func newSecurityBackend(string) (*securityBackend, error) {
	return nil, errNoSecurityCommand
}

func (*securityBackend) Set(context.Context, string, string) error { return errNoSecurityCommand }

func (*securityBackend) Get(context.Context, string) (string, error) { return "", errNoSecurityCommand }

func (*securityBackend) Delete(context.Context, string) error { return errNoSecurityCommand }
