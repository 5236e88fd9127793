// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd removes the stored session. It does not contact the server.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved token and identity",
	Long: `The logout command removes the stored token and cached identity from the
configured storage backend. Running it without a session is harmless.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Signed out. Saved credentials have been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
