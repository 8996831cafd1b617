package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add [recipe-id]",
	Short: "Put a recipe in the shopping cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}
		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		recipe, err := httpClient.AddToCart(id)
		if err != nil {
			return fmt.Errorf("failed to add to cart: %w", err)
		}
		color.Green("🛒 %s added to the shopping cart", recipe.Name)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [recipe-id]",
	Short: "Take a recipe out of the shopping cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}
		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		if err := httpClient.RemoveFromCart(id); err != nil {
			return fmt.Errorf("failed to remove from cart: %w", err)
		}
		color.Green("✓ Recipe %d removed from the shopping cart", id)
		return nil
	},
}

var cartDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the aggregated shopping list",
	Long: `Download the shopping list of every recipe in the cart, with the amounts of the
same ingredient added up. Without --output a text list is printed to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		httpClient, err := newClient(true)
		if err != nil {
			return err
		}
		data, filename, err := httpClient.DownloadShoppingList(format)
		if err != nil {
			return fmt.Errorf("failed to download shopping list: %w", err)
		}

		if output == "" {
			if format == "pdf" {
				output = filename
			} else {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
		}
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			output = filepath.Join(output, filename)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		color.Green("✓ Shopping list saved to %s", output)
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartDownloadCmd)

	cartDownloadCmd.Flags().StringP("format", "f", "txt", "txt, csv or pdf")
	cartDownloadCmd.Flags().StringP("output", "o", "", "file or directory to write to")
}
