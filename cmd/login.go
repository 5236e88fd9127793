// Copyright (c) 2025 Edupass
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"edupass/cli/internal/auth"
	"edupass/cli/internal/claims"
	"edupass/cli/internal/httperrors"
)

var loginUsername string

// loginCmd exchanges a username and password for a session token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with your username and password",
	Long: `The login command asks for your username and password and sends them to the
Edupass API. On success the issued token is stored with the configured storage
backend, together with the identity read from it.

When stdin is not a terminal, the password is read as the first line of input:

  echo "$PASSWORD" | edupass login -u alice`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if a.svc.IsAuthenticated(ctx) {
			if u := a.svc.CurrentUser(ctx); u != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s. Run 'edupass logout' first to switch accounts.\n", u.Username)
				return nil
			}
		}

		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		username, err := p.valueOrPrompt(loginUsername, "Username: ")
		if err != nil {
			return err
		}
		password, err := p.secret("Password: ")
		if err != nil {
			return err
		}

		in := loginInput{Username: username, Password: password}
		if err := in.Validate(); err != nil {
			return err
		}

		resp, err := withSpinner(cmd.ErrOrStderr(), "Signing in", func() (*auth.AuthResponse, error) {
			return a.svc.Login(ctx, auth.LoginRequest{Username: in.Username, Password: in.Password})
		})
		if err != nil {
			return httperrors.FormatNetworkError(err, "logging in")
		}

		if !resp.HasToken() {
			pterm.Warning.Println("The server did not issue a session token.")
			if resp.Message != "" {
				pterm.Println(resp.Message)
			}
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), loginGreeting(a.svc.CurrentUser(ctx)))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// loginGreeting returns a friendly greeting for u, or a plain confirmation
// when no identity could be read from the token.
func loginGreeting(u *claims.Identity) string {
	if u == nil {
		return "✅ Login successful!"
	}

	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to learn?",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], u.Username)
}
