// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"edupass/cli/internal/auth"
	"edupass/cli/internal/httperrors"
)

var (
	registerUsername string
	registerEmail    string
)

// registerCmd creates a new account and signs in when the server issues a token.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create a new Edupass account",
	Long: `The register command creates a new account. Input is checked locally before
anything is sent: the username needs 3 to 50 characters, the email must be valid
and the password needs at least 6 characters and must be entered twice.

If the server signs you in right away, the session is stored just like after
'edupass login'. Otherwise the server's message is shown and nothing is stored.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		var in registerInput
		if in.Username, err = p.valueOrPrompt(registerUsername, "Username: "); err != nil {
			return err
		}
		if in.Email, err = p.valueOrPrompt(registerEmail, "Email: "); err != nil {
			return err
		}
		if in.Password, err = p.secret("Password: "); err != nil {
			return err
		}
		if in.Confirm, err = p.secret("Confirm password: "); err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}

		resp, err := withSpinner(cmd.ErrOrStderr(), "Creating account", func() (*auth.AuthResponse, error) {
			return a.svc.Register(ctx, auth.RegisterRequest{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
			})
		})
		if err != nil {
			return httperrors.FormatNetworkError(err, "registering")
		}

		if !resp.HasToken() {
			pterm.Success.Println("Account created.")
			if resp.Message != "" {
				pterm.Println(resp.Message)
			}
			pterm.Println("Run 'edupass login' to sign in.")
			return nil
		}

		u := a.svc.CurrentUser(ctx)
		if u == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Account created and signed in.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Account created. Signed in as %s.\n", u.Username)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (prompted when omitted)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address (prompted when omitted)")
	rootCmd.AddCommand(registerCmd)
}
