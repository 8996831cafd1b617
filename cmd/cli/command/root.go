package command

// root.go defines the root command for the recipehub CLI.
// set up the global flags here.

import (
	"os"

	"recipehub/cmd/cli/authentication"
	"recipehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string // Global flag for API server URL
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recipehub",
	Short: "recipehub - RecipeHub Command Line Interface",
	Long: `recipehub is a tool to interact with the RecipeHub API. User can use this application to:
- Browse recipes and filter them by tag, author, favorites or shopping cart
- Mark recipes as favorites and collect them in a shopping cart
- Download the aggregated shopping list
- Follow authors and see their newest recipes

Use "recipehub command --help" to see all available commands.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	defaultURL := os.Getenv("RECIPEHUB_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(authCmd, recipesCmd, cartCmd, subscriptionsCmd)
}

// newClient builds an HTTP client carrying the stored token, if any.
// With requireLogin the command fails when no token is stored.
func newClient(requireLogin bool) (*client.HTTPClient, error) {
	httpClient := client.NewHTTPClient(apiURL)
	creds, err := authentication.GetTokens()
	if err != nil {
		if requireLogin {
			return nil, err
		}
		return httpClient, nil
	}
	httpClient.SetToken(creds.AccessToken)
	return httpClient, nil
}
