package repository

import (
	"context"

	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated row: a product and the summed amount across the basket.
type ShoppingListItem struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Unit        string `json:"measurement_unit"`
	TotalAmount int64  `json:"amount"`
}

type ShoppingListRepository interface {
	Aggregate(ctx context.Context, userID string) ([]ShoppingListItem, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// Aggregate sums the ingredient lines of every recipe in the user's basket per product,
// ordered by product name then id.
func (r *shoppingListRepository) Aggregate(ctx context.Context, userID string) ([]ShoppingListItem, error) {
	items := []ShoppingListItem{}
	if err := r.db.WithContext(ctx).
		Table("ingredient_lines AS il").
		Select("p.id AS product_id, p.name AS name, p.unit AS unit, SUM(il.amount) AS total_amount").
		Joins("JOIN basket_items b ON b.recipe_id = il.recipe_id").
		Joins("JOIN products p ON p.id = il.product_id").
		Where("b.user_id = ?", userID).
		Group("p.id, p.name, p.unit").
		Order("p.name, p.id").
		Scan(&items).Error; err != nil {
		return nil, wrap("aggregate shopping list", err)
	}
	return items, nil
}
