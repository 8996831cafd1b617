package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "Follow authors",
}

var listSubscriptionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List followed authors with their newest recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		recipesLimit, _ := cmd.Flags().GetInt("recipes-limit")

		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		result, err := httpClient.ListSubscriptions(page, recipesLimit)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Results) == 0 {
			fmt.Fprintln(out, "You are not following anyone yet.")
			return nil
		}
		for _, a := range result.Results {
			printAuthor(out, a)
		}
		printPageFooter(out, len(result.Results), result.Count, result.Next != nil)
		return nil
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe [author-id]",
	Short: "Follow an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipesLimit, _ := cmd.Flags().GetInt("recipes-limit")

		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		author, err := httpClient.Subscribe(args[0], recipesLimit)
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		color.Green("✓ Now following %s", author.Username)
		printAuthor(cmd.OutOrStdout(), *author)
		return nil
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe [author-id]",
	Short: "Stop following an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		if err := httpClient.Unsubscribe(args[0]); err != nil {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}
		color.Green("✓ Unsubscribed from %s", args[0])
		return nil
	},
}

func init() {
	subscriptionsCmd.AddCommand(listSubscriptionsCmd, subscribeCmd, unsubscribeCmd)

	listSubscriptionsCmd.Flags().Int("page", 1, "page number")
	for _, c := range []*cobra.Command{listSubscriptionsCmd, subscribeCmd} {
		c.Flags().Int("recipes-limit", 0, "recipes shown per author (server default when 0)")
	}
}
