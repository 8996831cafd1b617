package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"recipehub/internal/media"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

const maxRecipeNameLength = 200

// ImageSaver persists uploaded images and hands back a storage reference.
type ImageSaver interface {
	SaveDataURI(dataURI string) (string, error)
	Remove(ref string) error
}

type IngredientInput struct {
	ProductID int64
	Amount    int
}

// RecipeInput carries a create or update request. Scalar fields are optional on update;
// Ingredients and TagIDs always replace the stored sets.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *string // data URI
	Ingredients []IngredientInput
	TagIDs      []int64
}

type RecipeQuery struct {
	PageRequest
	AuthorID           string
	OnlyFavorited      bool
	OnlyInShoppingCart bool
	TagSlugs           []string
}

type RecipeService interface {
	Create(ctx context.Context, viewer shared.Viewer, in RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, viewer shared.Viewer, id int64, in RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, viewer shared.Viewer, id int64) error
	Get(ctx context.Context, viewer shared.Viewer, id int64) (*RecipeView, error)
	List(ctx context.Context, viewer shared.Viewer, q RecipeQuery) ([]RecipeView, int64, error)
}

type recipeService struct {
	store     *repository.Store
	projector *Projector
	images    ImageSaver
	log       *slog.Logger
	pageSize  int
}

func NewRecipeService(store *repository.Store, projector *Projector, images ImageSaver, log *slog.Logger, pageSize int) RecipeService {
	return &recipeService{
		store:     store,
		projector: projector,
		images:    images,
		log:       log,
		pageSize:  pageSize,
	}
}

func (s *recipeService) Create(ctx context.Context, viewer shared.Viewer, in RecipeInput) (*RecipeView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if err := validateRecipeInput(in, true); err != nil {
		return nil, err
	}

	ref, err := s.saveImage(*in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    viewer.UserID,
		Name:        strings.TrimSpace(*in.Name),
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		Image:       ref,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureCatalogRefs(ctx, tx, in); err != nil {
			return err
		}
		if err := tx.Recipes.Create(ctx, recipe); err != nil {
			return err
		}
		if err := tx.Recipes.ReplaceIngredients(ctx, recipe.ID, ingredientLines(in.Ingredients)); err != nil {
			return err
		}
		return tx.Recipes.ReplaceTags(ctx, recipe.ID, in.TagIDs)
	})
	if err != nil {
		s.discardImage(ref)
		return nil, s.writeError("create recipe", err)
	}

	s.log.Debug("recipe created", "recipe_id", recipe.ID, "author_id", viewer.UserID)
	return s.Get(ctx, viewer, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, viewer shared.Viewer, id int64, in RecipeInput) (*RecipeView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	existing, err := s.ownedRecipe(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := validateRecipeInput(in, false); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.CookingTime != nil {
		fields["cooking_time"] = *in.CookingTime
	}
	newRef := ""
	if in.Image != nil {
		if newRef, err = s.saveImage(*in.Image); err != nil {
			return nil, err
		}
		fields["image"] = newRef
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureCatalogRefs(ctx, tx, in); err != nil {
			return err
		}
		if err := tx.Recipes.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if err := tx.Recipes.ReplaceIngredients(ctx, id, ingredientLines(in.Ingredients)); err != nil {
			return err
		}
		return tx.Recipes.ReplaceTags(ctx, id, in.TagIDs)
	})
	if err != nil {
		s.discardImage(newRef)
		return nil, s.writeError("update recipe", err)
	}
	if newRef != "" {
		s.discardImage(existing.Image)
	}

	s.log.Debug("recipe updated", "recipe_id", id, "author_id", viewer.UserID)
	return s.Get(ctx, viewer, id)
}

func (s *recipeService) Delete(ctx context.Context, viewer shared.Viewer, id int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	existing, err := s.ownedRecipe(ctx, viewer, id)
	if err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Recipes.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return shared.NotFoundf("recipe %d not found", id)
	}
	if err != nil {
		return s.writeError("delete recipe", err)
	}

	s.discardImage(existing.Image)
	s.log.Debug("recipe deleted", "recipe_id", id, "author_id", viewer.UserID)
	return nil
}

func (s *recipeService) Get(ctx context.Context, viewer shared.Viewer, id int64) (*RecipeView, error) {
	recipe, err := s.store.Recipes.GetDetailed(ctx, id, viewer.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shared.NotFoundf("recipe %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, recipe, viewer)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *recipeService) List(ctx context.Context, viewer shared.Viewer, q RecipeQuery) ([]RecipeView, int64, error) {
	page := q.PageRequest.Normalize(s.pageSize)

	// membership filters mean nothing without an identity
	if viewer.Anonymous() && (q.OnlyFavorited || q.OnlyInShoppingCart) {
		return []RecipeView{}, 0, nil
	}

	filter := repository.RecipeFilter{
		TagSlugs: q.TagSlugs,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}
	// a malformed author filter is ignored
	if authorID, ok := canonicalUserID(q.AuthorID); ok {
		filter.AuthorID = authorID
	}
	if q.OnlyFavorited {
		filter.FavoritedBy = viewer.UserID
	}
	if q.OnlyInShoppingCart {
		filter.InBasketOf = viewer.UserID
	}

	recipes, total, err := s.store.Recipes.List(ctx, filter, viewer.UserID)
	if err != nil {
		return nil, 0, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.view(ctx, &recipes[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// view projects a recipe loaded by an annotated query, so the flags are precomputed.
func (s *recipeService) view(ctx context.Context, recipe *models.Recipe, viewer shared.Viewer) (RecipeView, error) {
	flags, err := s.projector.Project(ctx, recipe, viewer, &RecipeFlags{
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
	})
	if err != nil {
		return RecipeView{}, err
	}
	subscribed, err := s.projector.ProjectUser(ctx, recipe.Author, viewer, &recipe.IsAuthorSubscribed)
	if err != nil {
		return RecipeView{}, err
	}
	return RecipeView{Recipe: recipe, Flags: flags, AuthorSubscribed: subscribed}, nil
}

func (s *recipeService) ownedRecipe(ctx context.Context, viewer shared.Viewer, id int64) (*models.Recipe, error) {
	recipe, err := s.store.Recipes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shared.NotFoundf("recipe %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, shared.Forbidden("only the author can change this recipe")
	}
	return recipe, nil
}

func (s *recipeService) saveImage(dataURI string) (string, error) {
	ref, err := s.images.SaveDataURI(dataURI)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return "", shared.Validation("image", "image is too large")
	case errors.Is(err, media.ErrInvalidImage):
		return "", shared.Validation("image", "upload a valid png, jpeg or gif image as a base64 data uri")
	case err != nil:
		return "", fmt.Errorf("save image: %w", err)
	}
	return ref, nil
}

func (s *recipeService) discardImage(ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Remove(ref); err != nil {
		s.log.Warn("failed to remove image", "ref", ref, "error", err)
	}
}

// writeError maps errors escaping a writer transaction. Application errors pass through.
func (s *recipeService) writeError(op string, err error) error {
	if shared.KindOf(err) != "" {
		return err
	}
	if errors.Is(err, repository.ErrForeignKey) {
		return shared.NotFound("referenced ingredient or tag does not exist").WithCause(err)
	}
	if errors.Is(err, repository.ErrCheckViolation) {
		return shared.Validation("", "recipe violates a storage constraint").WithCause(err)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return shared.Validation("ingredients", "duplicate ingredient in recipe").WithCause(err)
	}
	return integrityError(s.log, op, err)
}

func validateRecipeInput(in RecipeInput, create bool) error {
	if create {
		switch {
		case in.Name == nil:
			return shared.Validation("name", "this field is required")
		case in.Text == nil:
			return shared.Validation("text", "this field is required")
		case in.CookingTime == nil:
			return shared.Validation("cooking_time", "this field is required")
		case in.Image == nil:
			return shared.Validation("image", "this field is required")
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return shared.Validation("name", "this field may not be blank")
		}
		if utf8.RuneCountInString(name) > maxRecipeNameLength {
			return shared.Validation("name", fmt.Sprintf("ensure this field has no more than %d characters", maxRecipeNameLength))
		}
	}
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return shared.Validation("text", "this field may not be blank")
	}
	if in.CookingTime != nil && *in.CookingTime < 1 {
		return shared.Validation("cooking_time", "cooking time must be at least 1 minute")
	}

	if len(in.Ingredients) == 0 {
		return shared.Validation("ingredients", "at least one ingredient is required")
	}
	seen := make(map[int64]struct{}, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if ing.Amount < 1 {
			return shared.Validation("ingredients", "ingredient amount must be at least 1")
		}
		// identity is the product alone, amounts do not matter
		if _, dup := seen[ing.ProductID]; dup {
			return shared.Validation("ingredients", "duplicate ingredient in recipe")
		}
		seen[ing.ProductID] = struct{}{}
	}

	if len(uniqueInt64(in.TagIDs)) != len(in.TagIDs) {
		return shared.Validation("tags", "duplicate tag in recipe")
	}
	return nil
}

// ensureCatalogRefs fails with NotFound when any referenced product or tag is missing.
func ensureCatalogRefs(ctx context.Context, tx *repository.Store, in RecipeInput) error {
	productIDs := make([]int64, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		productIDs = append(productIDs, ing.ProductID)
	}
	n, err := tx.Products.CountExisting(ctx, productIDs)
	if err != nil {
		return err
	}
	if n != int64(len(productIDs)) {
		return shared.NotFound("one or more ingredients do not exist")
	}

	n, err = tx.Tags.CountExisting(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	if n != int64(len(in.TagIDs)) {
		return shared.NotFound("one or more tags do not exist")
	}
	return nil
}

func ingredientLines(in []IngredientInput) []models.IngredientLine {
	lines := make([]models.IngredientLine, 0, len(in))
	for _, ing := range in {
		lines = append(lines, models.IngredientLine{ProductID: ing.ProductID, Amount: ing.Amount})
	}
	return lines
}
