// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edupass/cli/internal/logging"
	"edupass/cli/internal/store"
)

var tokenReveal bool

// tokenCmd prints the stored token so it can be forwarded by scripts, e.g.
// curl -H "Authorization: Bearer $(edupass token --reveal)".
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		tok, err := a.svc.Token(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("not logged in; run 'edupass login' first")
		}
		if err != nil {
			return err
		}

		if !tokenReveal {
			tok = logging.MaskSecret(tok)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenReveal, "reveal", false, "Print the full token instead of a masked prefix")
	rootCmd.AddCommand(tokenCmd)
}
