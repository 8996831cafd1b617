package service

import (
	"context"
	"strconv"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/shared"
)

const (
	DefaultRecipesLimit = 20
	MaxRecipesLimit     = 20
)

// RecipeFlags are the viewer-relative booleans of one recipe.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// FlagReader answers membership questions for a batch of targets, one query per relation.
type FlagReader interface {
	FavoritedRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error)
	BasketRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error)
	SubscribedAuthorIDs(ctx context.Context, subscriberID string, authorIDs []string) ([]string, error)
}

// PreviewReader loads the newest recipes of several authors at once.
type PreviewReader interface {
	LatestByAuthors(ctx context.Context, authorIDs []string, perAuthor int) ([]models.Recipe, error)
}

// RecipeView is a recipe as seen by one viewer.
type RecipeView struct {
	Recipe           *models.Recipe
	Flags            RecipeFlags
	AuthorSubscribed bool
}

// AuthorView is a followed author with a recipe count and a newest-first preview.
type AuthorView struct {
	User         *models.User
	IsSubscribed bool
	RecipesCount int64
	Recipes      []models.Recipe
}

// Projector computes viewer-relative state. Precomputed values from annotated queries are
// used as-is; otherwise it issues one IN query per relation regardless of batch size.
// The anonymous viewer never triggers a membership query.
type Projector struct {
	flags    FlagReader
	previews PreviewReader
}

func NewProjector(flags FlagReader, previews PreviewReader) *Projector {
	return &Projector{flags: flags, previews: previews}
}

// Project returns the flags of recipe for viewer. pre, when non-nil, is trusted.
func (p *Projector) Project(ctx context.Context, recipe *models.Recipe, viewer shared.Viewer, pre *RecipeFlags) (RecipeFlags, error) {
	if viewer.Anonymous() {
		return RecipeFlags{}, nil
	}
	if pre != nil {
		return *pre, nil
	}
	flags, err := p.ProjectMany(ctx, []int64{recipe.ID}, viewer)
	if err != nil {
		return RecipeFlags{}, err
	}
	return flags[recipe.ID], nil
}

// ProjectMany computes flags for many recipes with one query per relation.
// Recipes absent from the result map have all flags false.
func (p *Projector) ProjectMany(ctx context.Context, recipeIDs []int64, viewer shared.Viewer) (map[int64]RecipeFlags, error) {
	out := make(map[int64]RecipeFlags, len(recipeIDs))
	if viewer.Anonymous() || len(recipeIDs) == 0 {
		return out, nil
	}

	favorited, err := p.flags.FavoritedRecipeIDs(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inBasket, err := p.flags.BasketRecipeIDs(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range favorited {
		f := out[id]
		f.IsFavorited = true
		out[id] = f
	}
	for _, id := range inBasket {
		f := out[id]
		f.IsInShoppingCart = true
		out[id] = f
	}
	return out, nil
}

// ProjectUser reports whether viewer follows user. Nobody follows themselves.
func (p *Projector) ProjectUser(ctx context.Context, user *models.User, viewer shared.Viewer, pre *bool) (bool, error) {
	if user == nil || viewer.Anonymous() || viewer.UserID == user.ID {
		return false, nil
	}
	if pre != nil {
		return *pre, nil
	}
	ids, err := p.flags.SubscribedAuthorIDs(ctx, viewer.UserID, []string{user.ID})
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// ProjectSubscriptionList attaches a preview of at most recipesLimit newest recipes to each
// author, loaded with a single windowed query. Recipe counts come from the annotated users.
func (p *Projector) ProjectSubscriptionList(ctx context.Context, viewer shared.Viewer, authors []models.User, recipesLimit int) ([]AuthorView, error) {
	views := make([]AuthorView, 0, len(authors))
	if len(authors) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	recipes, err := p.previews.LatestByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[string][]models.Recipe, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], r)
	}

	for i := range authors {
		a := &authors[i]
		subscribed, err := p.ProjectUser(ctx, a, viewer, &a.IsSubscribed)
		if err != nil {
			return nil, err
		}
		preview := byAuthor[a.ID]
		if preview == nil {
			preview = []models.Recipe{}
		}
		views = append(views, AuthorView{
			User:         a,
			IsSubscribed: subscribed,
			RecipesCount: a.RecipesCount,
			Recipes:      preview,
		})
	}
	return views, nil
}

// ParseRecipesLimit reads the recipes_limit query value. Anything that is not an integer
// in [1, MaxRecipesLimit] falls back to the default.
func ParseRecipesLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxRecipesLimit {
		return DefaultRecipesLimit
	}
	return n
}
