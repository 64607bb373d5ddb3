package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"tapea/cmd/cli/authentication"
	pkgmodels "tapea/pkg/models"
)

// auth.go handles sign-in and sign-out. Google sign-in finishes in the
// browser; the callback page shows the token pair to paste back here.

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Without flags, prints the Google sign-in URL. After signing in, run
"tapea login --access-token <token> --refresh-token <token>" with the values
shown by the callback to finish. A vote staged before sign-in is saved then.`,
	Annotations: map[string]string{skipReconcile: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		access, _ := cmd.Flags().GetString("access-token")
		refresh, _ := cmd.Flags().GetString("refresh-token")

		if access == "" {
			res, err := app.identity.SignIn(cmd.Context(), "google", "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in your browser to sign in:")
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		}

		creds, err := authentication.Credentials(pkgmodels.TokenPair{AccessToken: access, RefreshToken: refresh})
		if err != nil {
			return fmt.Errorf("login process failed: %w", err)
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", displayName(creds))
		reconcile(cmd)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Sign out and revoke the refresh token",
	Annotations: map[string]string{skipReconcile: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		if creds != nil && creds.RefreshToken != "" {
			// the local session goes away even if the server is unreachable
			if err := app.api.Logout(cmd.Context(), creds.RefreshToken); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not revoke session: %v\n", err)
			}
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requireUser(cmd.Context()); err != nil {
			return err
		}
		role, err := app.api.Role(cmd.Context())
		if err != nil {
			return err
		}
		creds, _ := authentication.GetTokens()
		name := role.UserID
		if creds != nil {
			name = displayName(creds)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, role.Role)
		return nil
	},
}

func displayName(creds *authentication.StoredCredentials) string {
	if creds.Email != "" {
		return creds.Email
	}
	return creds.UserID
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().String("access-token", "", "access token from the sign-in callback")
	loginCmd.Flags().String("refresh-token", "", "refresh token from the sign-in callback")
}
