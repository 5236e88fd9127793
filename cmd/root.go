// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Edupass CLI.
// It implements subcommands for signing in, registering, signing out and
// inspecting the local session using the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"edupass/cli/internal/logging"
)

var (
	showVersion bool

	// Persistent flags; empty values leave config and environment untouched.
	configPath string
	apiURL     string
	storeName  string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "edupass",
	Short: "Edupass CLI for signing in to the Edupass API",
	Long: `Edupass is a command-line client for the Edupass API. It signs you in with a
username and password, keeps the issued token in local storage (the OS keychain
by default) and shows who is signed in.

The identity shown by 'edupass whoami' is read from the token without checking
its signature. It is for display only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "edupass %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/edupass/config.json)")
	pf.StringVar(&apiURL, "api-url", "", "API base URL, e.g. https://api.example.com/api/v1")
	pf.StringVar(&storeName, "store", "", "Session storage backend: keychain, file, sqlite or memory")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
