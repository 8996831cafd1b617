package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Empty fields do not filter.
type RecipeFilter struct {
	AuthorID    string
	FavoritedBy string   // only recipes favorited by this user
	InBasketOf  string   // only recipes in this user's basket
	TagSlugs    []string // any of these tags
	Limit       int
	Offset      int
}

type RecipeRepository interface {
	// Create inserts the recipe row only; lines and tags are written separately.
	Create(ctx context.Context, recipe *models.Recipe) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	// ReplaceIngredients deletes every line of the recipe and bulk-inserts lines.
	ReplaceIngredients(ctx context.Context, recipeID int64, lines []models.IngredientLine) error
	// ReplaceTags swaps the tag set of the recipe for tagIDs.
	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetDetailed loads the recipe with author, tags and lines, annotated for viewerID.
	GetDetailed(ctx context.Context, id int64, viewerID string) (*models.Recipe, error)
	// List returns one page of recipes, newest first, annotated for viewerID, and the total count.
	List(ctx context.Context, filter RecipeFilter, viewerID string) ([]models.Recipe, int64, error)
	// LatestByAuthors returns at most perAuthor newest recipes of each author in one query.
	LatestByAuthors(ctx context.Context, authorIDs []string, perAuthor int) ([]models.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).
		Omit("Author", "Tags", "Ingredients").
		Create(recipe).Error; err != nil {
		return wrap("create recipe", err)
	}
	// GORM will populate recipe.ID and recipe.CreatedAt
	return nil
}

func (r *recipeRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return wrap("update recipe", err)
	}
	return nil
}

// Delete removes the recipe and everything that hangs off it. The explicit deletes keep
// the behavior identical on databases where cascades are not enforced.
func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	for _, m := range []any{&models.RecipeTag{}, &models.IngredientLine{}, &models.Favorite{}, &models.BasketItem{}} {
		if err := db.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
			return wrap("delete recipe relations", err)
		}
	}
	result := db.Delete(&models.Recipe{}, id)
	if result.Error != nil {
		return wrap("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("delete recipe", ErrNotFound)
	}
	return nil
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, lines []models.IngredientLine) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.IngredientLine{}).Error; err != nil {
		return wrap("delete ingredient lines", err)
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	if err := db.Omit("Product").Create(&lines).Error; err != nil {
		return wrap("insert ingredient lines", err)
	}
	return nil
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return wrap("delete recipe tags", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := db.Create(&links).Error; err != nil {
		return wrap("insert recipe tags", err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, wrap("get recipe", err)
	}
	return &recipe, nil
}

func (r *recipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, wrap("check recipe", err)
	}
	return count > 0, nil
}

func (r *recipeRepository) GetDetailed(ctx context.Context, id int64, viewerID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(annotateRecipes(r.db.WithContext(ctx), viewerID)).
		Where("recipes.id = ?", id).
		Take(&recipe).Error; err != nil {
		return nil, wrap("get recipe", err)
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, viewerID string) ([]models.Recipe, int64, error) {
	var total int64
	if err := applyRecipeFilter(r.db.WithContext(ctx).Model(&models.Recipe{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, wrap("count recipes", err)
	}

	var list []models.Recipe
	q := applyRecipeFilter(withDetails(annotateRecipes(r.db.WithContext(ctx), viewerID)), filter).
		Order("recipes.created_at DESC, recipes.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, wrap("list recipes", err)
	}
	return list, total, nil
}

func (r *recipeRepository) LatestByAuthors(ctx context.Context, authorIDs []string, perAuthor int) ([]models.Recipe, error) {
	if len(authorIDs) == 0 || perAuthor < 1 {
		return nil, nil
	}
	ranked := r.db.Model(&models.Recipe{}).
		Select("recipes.*, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("author_id IN ?", authorIDs)

	var list []models.Recipe
	if err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Select("id, author_id, name, text, cooking_time, image, created_at").
		Where("rn <= ?", perAuthor).
		Order("author_id, created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, wrap("list latest recipes", err)
	}
	return list, nil
}

// annotateRecipes selects recipes with the viewer-relative flags computed by correlated
// EXISTS subqueries. The anonymous viewer gets no subqueries and all flags stay false.
func annotateRecipes(db *gorm.DB, viewerID string) *gorm.DB {
	if viewerID == "" {
		return db.Model(&models.Recipe{}).Select("recipes.*")
	}
	return db.Model(&models.Recipe{}).Select(`recipes.*,
		EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = recipes.id AND f.user_id = ?) AS is_favorited,
		EXISTS (SELECT 1 FROM basket_items b WHERE b.recipe_id = recipes.id AND b.user_id = ?) AS is_in_shopping_cart,
		EXISTS (SELECT 1 FROM subscriptions s WHERE s.author_id = recipes.author_id AND s.subscriber_id = ?) AS is_author_subscribed`,
		viewerID, viewerID, viewerID)
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_lines.id") }).
		Preload("Ingredients.Product")
}

func applyRecipeFilter(db *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != "" {
		db = db.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy != "" {
		db = db.Where("EXISTS (SELECT 1 FROM favorites fv WHERE fv.recipe_id = recipes.id AND fv.user_id = ?)", f.FavoritedBy)
	}
	if f.InBasketOf != "" {
		db = db.Where("EXISTS (SELECT 1 FROM basket_items bi WHERE bi.recipe_id = recipes.id AND bi.user_id = ?)", f.InBasketOf)
	}
	if len(f.TagSlugs) > 0 {
		db = db.Where(`recipes.id IN (SELECT rt.recipe_id FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id WHERE t.slug IN ?)`, f.TagSlugs)
	}
	return db
}
