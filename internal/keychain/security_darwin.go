// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// securityBackend implements keychain operations using macOS security command.
// Entries are generic passwords with account = service name and service = key.
type securityBackend struct {
	account string
}

// newSecurityBackend creates a new macOS security command backend.
func newSecurityBackend(account string) (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{account: account}, nil
}

// Set stores a key-value pair in macOS keychain. The command is fed to
// `security -i` on stdin so the value is not visible in the process list.
func (s *securityBackend) Set(ctx context.Context, key, value string) error {
	// -U updates the entry in place, so there is no window where the key is missing
	line, err := addPasswordLine(s.account, key, value)
	if err != nil {
		return err
	}

	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, "security", "-i")
	cmd.Stdin = strings.NewReader(line)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	// interactive mode reports command failures on stderr with a zero exit code
	if stderr := strings.TrimSpace(errOut.String()); err != nil || stderr != "" {
		if err == nil {
			err = fmt.Errorf("security exited cleanly but reported an error")
		}
		return fmt.Errorf("failed to store %q in keychain: %s: %w", key, stderr, err)
	}
	return nil
}

// Get retrieves a value from macOS keychain.
func (s *securityBackend) Get(ctx context.Context, key string) (string, error) {
	stdout, stderr, err := s.run(ctx, "find-generic-password", "-a", s.account, "-s", key, "-w")
	if err != nil {
		if notFound(stderr) {
			return "", errKeyNotFound
		}
		return "", fmt.Errorf("failed to read %q from keychain: %s: %w", key, stderr, err)
	}
	// security appends a newline to the password
	return decodeSecret(strings.TrimSuffix(stdout, "\n"))
}

// Delete removes a key from macOS keychain. A missing entry is not an error.
func (s *securityBackend) Delete(ctx context.Context, key string) error {
	_, stderr, err := s.run(ctx, "delete-generic-password", "-a", s.account, "-s", key)
	if err != nil && !notFound(stderr) {
		return fmt.Errorf("failed to delete %q from keychain: %s: %w", key, stderr, err)
	}
	return nil
}

func (s *securityBackend) run(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, "security", args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), strings.TrimSpace(errOut.String()), err
}

func notFound(stderr string) bool {
	return strings.Contains(stderr, "could not be found")
}
