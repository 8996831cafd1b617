package command

import (
	"fmt"
	"strconv"

	"recipehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:     "recipes",
	Aliases: []string{"recipe"},
	Short:   "Browse recipes and manage favorites",
}

var listRecipesCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter client.RecipeFilter
		filter.Page, _ = cmd.Flags().GetInt("page")
		filter.Limit, _ = cmd.Flags().GetInt("limit")
		filter.Author, _ = cmd.Flags().GetString("author")
		filter.Tags, _ = cmd.Flags().GetStringSlice("tag")
		filter.IsFavorited, _ = cmd.Flags().GetBool("favorited")
		filter.IsInShoppingCart, _ = cmd.Flags().GetBool("in-cart")

		httpClient, err := newClient(filter.IsFavorited || filter.IsInShoppingCart)
		if err != nil {
			return err
		}
		page, err := httpClient.ListRecipes(filter)
		if err != nil {
			return fmt.Errorf("failed to list recipes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(page.Results) == 0 {
			fmt.Fprintln(out, "No recipes found.")
			return nil
		}
		for _, r := range page.Results {
			printRecipeLine(out, r)
		}
		printPageFooter(out, len(page.Results), page.Count, page.Next != nil)
		return nil
	},
}

var showRecipeCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a recipe with its ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}
		httpClient, err := newClient(false)
		if err != nil {
			return err
		}
		recipe, err := httpClient.GetRecipe(id)
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		printRecipe(cmd.OutOrStdout(), recipe)
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite [id]",
	Short: "Add a recipe to favorites",
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
		recipe, err := httpClient.AddFavorite(id)
		if err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		color.Green("★ %s added to favorites", recipe.Name)
		return nil
	},
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite [id]",
	Short: "Remove a recipe from favorites",
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
		if err := httpClient.RemoveFavorite(id); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		color.Green("✓ Recipe %d removed from favorites", id)
		return nil
	},
}

func parseRecipeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid recipe ID %q", raw)
	}
	return id, nil
}

func init() {
	recipesCmd.AddCommand(listRecipesCmd, showRecipeCmd, favoriteCmd, unfavoriteCmd)

	listRecipesCmd.Flags().Int("page", 1, "page number")
	listRecipesCmd.Flags().Int("limit", 0, "recipes per page (server default when 0)")
	listRecipesCmd.Flags().String("author", "", "only recipes of this author ID")
	listRecipesCmd.Flags().StringSlice("tag", nil, "tag slug, repeatable (matches any)")
	listRecipesCmd.Flags().Bool("favorited", false, "only my favorites")
	listRecipesCmd.Flags().Bool("in-cart", false, "only recipes in my shopping cart")
}
