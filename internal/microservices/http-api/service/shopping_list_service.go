package service

import (
	"context"

	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

type ShoppingListService interface {
	// Aggregate sums the ingredients of every recipe in the viewer's basket per product.
	Aggregate(ctx context.Context, viewer shared.Viewer) ([]repository.ShoppingListItem, error)
}

type shoppingListService struct {
	repo repository.ShoppingListRepository
}

func NewShoppingListService(repo repository.ShoppingListRepository) ShoppingListService {
	return &shoppingListService{repo: repo}
}

func (s *shoppingListService) Aggregate(ctx context.Context, viewer shared.Viewer) ([]repository.ShoppingListItem, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	items, err := s.repo.Aggregate(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []repository.ShoppingListItem{}
	}
	return items, nil
}
