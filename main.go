// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the Edupass CLI application.
package main

import (
	"edupass/cli/cmd"
)

func main() {
	cmd.Execute()
}
