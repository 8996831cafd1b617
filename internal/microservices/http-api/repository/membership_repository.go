package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// MembershipRepository manages a (user, recipe) set such as favorites or the basket.
type MembershipRepository interface {
	Add(ctx context.Context, userID string, recipeID int64) error
	// Remove deletes the pair; a missing pair yields ErrNotFound.
	Remove(ctx context.Context, userID string, recipeID int64) error
	Exists(ctx context.Context, userID string, recipeID int64) (bool, error)
	CountByRecipe(ctx context.Context, recipeID int64) (int64, error)
}

type membershipRepository struct {
	db   *gorm.DB
	name string
	row  func(userID string, recipeID int64) any
}

func NewFavoriteRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{
		db:   db,
		name: "favorite",
		row: func(userID string, recipeID int64) any {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewBasketRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{
		db:   db,
		name: "basket item",
		row: func(userID string, recipeID int64) any {
			return &models.BasketItem{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *membershipRepository) Add(ctx context.Context, userID string, recipeID int64) error {
	if err := r.db.WithContext(ctx).Omit("User", "Recipe").Create(r.row(userID, recipeID)).Error; err != nil {
		return wrap("add "+r.name, err)
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, userID string, recipeID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.row("", 0))

	if result.Error != nil {
		return wrap("remove "+r.name, result.Error)
	}

	if result.RowsAffected == 0 {
		return wrap("remove "+r.name, ErrNotFound)
	}

	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, userID string, recipeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(r.row("", 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, wrap("check "+r.name, err)
	}
	return count > 0, nil
}

func (r *membershipRepository) CountByRecipe(ctx context.Context, recipeID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(r.row("", 0)).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, wrap("count "+r.name, err)
	}
	return count, nil
}
