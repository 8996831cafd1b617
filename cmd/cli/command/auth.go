package command

import (
	"fmt"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// auth.go handles the token of the CLI. Tokens are issued outside the API and pasted in here.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Store or remove the API token used by every other command.`,
}

// setTokenCmd verifies the token against /users/me before storing it
var setTokenCmd = &cobra.Command{
	Use:   "set-token [jwt]",
	Short: "Store an API token in the OS keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(args[0])

		me, err := httpClient.Me()
		if err != nil {
			return fmt.Errorf("token rejected: %w", err)
		}

		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken: args[0],
			UserID:      me.ID,
			Username:    me.Username,
			APIURL:      apiURL,
		}); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		color.Green("✓ Logged in as %s (%s)", me.Username, me.ID)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) at %s\n", creds.Username, creds.UserID, creds.APIURL)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		color.Green("✓ Successfully logged out.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(setTokenCmd, whoamiCmd, logoutCmd)
}
