// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// encodedPrefix marks values written by the native backend. Values are
// base64 encoded so the `security -i` line never needs quoting.
const encodedPrefix = "b64:"

var safeArg = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func encodeSecret(v string) string {
	return encodedPrefix + base64.StdEncoding.EncodeToString([]byte(v))
}

// decodeSecret reverses encodeSecret. Values without the prefix are returned as is.
func decodeSecret(s string) (string, error) {
	if !strings.HasPrefix(s, encodedPrefix) {
		return s, nil
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, encodedPrefix))
	if err != nil {
		return "", fmt.Errorf("decode keychain value: %w", err)
	}
	return string(b), nil
}

// addPasswordLine renders the `security -i` command that stores value. It is
// written to the process's stdin so the secret never appears in its arguments.
func addPasswordLine(account, key, value string) (string, error) {
	for _, a := range []string{account, key} {
		if !safeArg.MatchString(a) {
			return "", fmt.Errorf("keychain: unsupported name %q", a)
		}
	}
	return fmt.Sprintf("add-generic-password -U -a %s -s %s -w %s\n", account, key, encodeSecret(value)), nil
}
