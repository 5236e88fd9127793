// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"edupass/cli/internal/claims"
)

var whoamiJSON bool

// whoamiCmd prints the cached identity. It never contacts the server.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in user",
	Long: `The whoami command shows the identity cached at sign-in. The values come from
the token's claims and are not verified, so treat them as a display hint.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		if !a.svc.IsAuthenticated(ctx) {
			printNotLoggedIn(out)
			return nil
		}

		u := a.svc.CurrentUser(ctx)
		if whoamiJSON {
			return json.NewEncoder(out).Encode(u)
		}
		if u == nil {
			fmt.Fprintln(out, "🔑 Signed in, but no user details could be read from the token.")
			return nil
		}
		printIdentity(out, u)
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Print the identity as JSON")
	rootCmd.AddCommand(whoamiCmd)
}

func printNotLoggedIn(w io.Writer) {
	fmt.Fprintln(w, "🔒 You're not logged in yet!")
	fmt.Fprintln(w, "   Run 'edupass login' to get started.")
}

func printIdentity(w io.Writer, u *claims.Identity) {
	label := pterm.NewStyle(pterm.FgLightCyan)
	fmt.Fprintf(w, "👤 Current user: %s\n", u.Username)
	if u.ID != 0 {
		fmt.Fprintln(w, label.Sprint("   ID:    ")+fmt.Sprint(u.ID))
	}
	if u.Email != "" {
		fmt.Fprintln(w, label.Sprint("   Email: ")+u.Email)
	}
	if role := u.RoleName(); role != "" {
		fmt.Fprintln(w, label.Sprint("   Role:  ")+role)
	}
}
