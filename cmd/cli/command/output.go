package command

import (
	"fmt"
	"io"
	"strings"

	"recipehub/cmd/cli/command/client"

	"github.com/fatih/color"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
	flagColor  = color.New(color.FgYellow)
)

func printRecipeLine(w io.Writer, r client.RecipeResponse) {
	titleColor.Fprintf(w, "#%d %s", r.ID, r.Name)
	dimColor.Fprintf(w, "  %d min  by %s", r.CookingTime, r.Author.Username)
	var marks []string
	if r.IsFavorited {
		marks = append(marks, "★ favorite")
	}
	if r.IsInShoppingCart {
		marks = append(marks, "🛒 in cart")
	}
	if len(marks) > 0 {
		flagColor.Fprintf(w, "  [%s]", strings.Join(marks, ", "))
	}
	fmt.Fprintln(w)
}

func printRecipe(w io.Writer, r *client.RecipeResponse) {
	printRecipeLine(w, *r)
	if len(r.Tags) > 0 {
		names := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			names = append(names, t.Name)
		}
		dimColor.Fprintf(w, "Tags: %s\n", strings.Join(names, ", "))
	}
	if r.Image != "" {
		dimColor.Fprintf(w, "Image: %s\n", r.Image)
	}
	fmt.Fprintln(w, "\nIngredients:")
	for _, in := range r.Ingredients {
		fmt.Fprintf(w, "  • %s — %d %s\n", in.Name, in.Amount, in.MeasurementUnit)
	}
	fmt.Fprintf(w, "\n%s\n", r.Text)
}

func printAuthor(w io.Writer, a client.AuthorResponse) {
	titleColor.Fprintf(w, "%s", a.Username)
	dimColor.Fprintf(w, "  %s %s  (%s)  %d recipes\n", a.FirstName, a.LastName, a.ID, a.RecipesCount)
	for _, r := range a.Recipes {
		fmt.Fprintf(w, "  #%d %s (%d min)\n", r.ID, r.Name, r.CookingTime)
	}
}

func printPageFooter(w io.Writer, shown int, count int64, hasNext bool) {
	msg := fmt.Sprintf("Showing %d of %d", shown, count)
	if hasNext {
		msg += ", use --page for more"
	}
	dimColor.Fprintln(w, msg)
}
