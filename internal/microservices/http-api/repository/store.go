package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository over one gorm handle. Inside Transaction the
// same set of repositories is rebuilt on the transaction handle.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Products      ProductRepository
	Tags          TagRepository
	Recipes       RecipeRepository
	Favorites     MembershipRepository
	Basket        MembershipRepository
	Subscriptions SubscriptionRepository
	Projections   ProjectionRepository
	ShoppingList  ShoppingListRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Products:      NewProductRepository(db),
		Tags:          NewTagRepository(db),
		Recipes:       NewRecipeRepository(db),
		Favorites:     NewFavoriteRepository(db),
		Basket:        NewBasketRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Projections:   NewProjectionRepository(db),
		ShoppingList:  NewShoppingListRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}
