// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"edupass/cli/internal/httperrors"
)

// statusCmd summarizes configuration and session state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API, storage and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		label := pterm.NewStyle(pterm.FgLightCyan)
		eps := a.svc.Endpoints()

		fmt.Fprintln(out, label.Sprint("→ API:      ")+a.cfg.APIURL+" ("+httperrors.ExtractHostFromURL(a.cfg.APIURL)+")")
		fmt.Fprintln(out, label.Sprint("→ Login:    ")+eps.Login)
		fmt.Fprintln(out, label.Sprint("→ Register: ")+eps.Register)
		fmt.Fprintln(out, label.Sprint("→ Storage:  ")+a.cfg.Store.Backend)

		if !a.svc.IsAuthenticated(ctx) {
			fmt.Fprintln(out, label.Sprint("→ Session:  ")+"not signed in")
			return nil
		}
		who := "unknown user"
		if u := a.svc.CurrentUser(ctx); u != nil {
			who = u.Username
		}
		fmt.Fprintln(out, label.Sprint("→ Session:  ")+"signed in as "+who)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
