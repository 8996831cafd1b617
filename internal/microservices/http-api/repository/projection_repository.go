package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ProjectionRepository answers viewer-relative membership questions for a batch of targets
// with one IN query per relation.
type ProjectionRepository interface {
	FavoritedRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error)
	BasketRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error)
	SubscribedAuthorIDs(ctx context.Context, subscriberID string, authorIDs []string) ([]string, error)
}

type projectionRepository struct {
	db *gorm.DB
}

func NewProjectionRepository(db *gorm.DB) ProjectionRepository {
	return &projectionRepository{db: db}
}

func (r *projectionRepository) FavoritedRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error) {
	return r.recipeIDs(ctx, &models.Favorite{}, userID, recipeIDs)
}

func (r *projectionRepository) BasketRecipeIDs(ctx context.Context, userID string, recipeIDs []int64) ([]int64, error) {
	return r.recipeIDs(ctx, &models.BasketItem{}, userID, recipeIDs)
}

func (r *projectionRepository) recipeIDs(ctx context.Context, model any, userID string, recipeIDs []int64) ([]int64, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, wrap("project recipes", err)
	}
	return ids, nil
}

func (r *projectionRepository) SubscribedAuthorIDs(ctx context.Context, subscriberID string, authorIDs []string) ([]string, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, wrap("project authors", err)
	}
	return ids, nil
}
