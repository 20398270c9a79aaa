package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/spf13/cobra"
)

// InitAuth registers signup, signin and signout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), signinCmd(), signoutCmd())
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ==========================
// SIGNUP
// ==========================
func signupCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long:  "Register a new user. Prompts for anything not given as a flag.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prompt(cmd, &creds); err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}

			var out struct {
				ID       int    `json:"id"`
				Username string `json:"username"`
			}
			if err := c.Do(cmd.Context(), http.MethodPost, "/signup", creds, &out); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d). You can now sign in.\n", out.Username, out.ID)
			return nil
		},
	}
	addCredentialFlags(cmd, &creds)
	return cmd
}

// ==========================
// SIGNIN
// ==========================
func signinCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in",
		Long:  "Sign in and keep the session cookie locally for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prompt(cmd, &creds); err != nil {
				return err
			}
			c, err := client.Default()
			if err != nil {
				return err
			}
			if err := c.Do(cmd.Context(), http.MethodPost, "/signin", creds, nil); err != nil {
				return fmt.Errorf("signin failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", creds.Username)
			return nil
		},
	}
	addCredentialFlags(cmd, &creds)
	return cmd
}

// ==========================
// SIGNOUT
// ==========================
func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Default()
			if err != nil {
				return err
			}
			if !c.SignedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			err = c.Do(cmd.Context(), http.MethodGet, "/signout", nil, nil)
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
				// the server already forgot the session
				err = c.Forget()
			}
			if err != nil {
				return fmt.Errorf("signout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func addCredentialFlags(cmd *cobra.Command, creds *credentials) {
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
}

// prompt reads missing credentials from the command's input.
func prompt(cmd *cobra.Command, creds *credentials) error {
	in := bufio.NewReader(cmd.InOrStdin())
	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		*dst = strings.TrimSpace(line)
		if *dst == "" {
			return fmt.Errorf("%s is required", strings.ToLower(label))
		}
		return nil
	}
	if err := ask("Username", &creds.Username); err != nil {
		return err
	}
	return ask("Password", &creds.Password)
}
