package service

import (
	"context"
	"errors"
	"log/slog"

	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

// MembershipService toggles a recipe in one of the viewer's sets (favorites, shopping cart).
type MembershipService interface {
	// Add puts the recipe into the set and returns it re-projected for the viewer.
	Add(ctx context.Context, viewer shared.Viewer, recipeID int64) (*RecipeView, error)
	Remove(ctx context.Context, viewer shared.Viewer, recipeID int64) error
}

type membershipService struct {
	store     *repository.Store
	projector *Projector
	log       *slog.Logger
	relation  string
	set       func(*repository.Store) repository.MembershipRepository
}

func NewFavoriteService(store *repository.Store, projector *Projector, log *slog.Logger) MembershipService {
	return &membershipService{
		store:     store,
		projector: projector,
		log:       log,
		relation:  "favorites",
		set:       func(s *repository.Store) repository.MembershipRepository { return s.Favorites },
	}
}

func NewShoppingCartService(store *repository.Store, projector *Projector, log *slog.Logger) MembershipService {
	return &membershipService{
		store:     store,
		projector: projector,
		log:       log,
		relation:  "shopping cart",
		set:       func(s *repository.Store) repository.MembershipRepository { return s.Basket },
	}
}

func (s *membershipService) Add(ctx context.Context, viewer shared.Viewer, recipeID int64) (*RecipeView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := s.ensureRecipe(ctx, tx, recipeID); err != nil {
			return err
		}
		present, err := s.set(tx).Exists(ctx, viewer.UserID, recipeID)
		if err != nil {
			return err
		}
		if present {
			return s.alreadyMember()
		}
		return s.set(tx).Add(ctx, viewer.UserID, recipeID)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent request inserted the same pair first
		return nil, s.alreadyMember().WithCause(err)
	}
	if err != nil {
		return nil, s.toggleError("add to "+s.relation, err)
	}
	s.log.Debug("recipe added", "relation", s.relation, "recipe_id", recipeID, "user_id", viewer.UserID)

	recipe, err := s.store.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	flags, err := s.projector.Project(ctx, recipe, viewer, nil)
	if err != nil {
		return nil, err
	}
	return &RecipeView{Recipe: recipe, Flags: flags}, nil
}

func (s *membershipService) Remove(ctx context.Context, viewer shared.Viewer, recipeID int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := s.ensureRecipe(ctx, tx, recipeID); err != nil {
			return err
		}
		return s.set(tx).Remove(ctx, viewer.UserID, recipeID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return shared.Conflict("recipe is not in " + s.relation)
	}
	if err != nil {
		return s.toggleError("remove from "+s.relation, err)
	}
	s.log.Debug("recipe removed", "relation", s.relation, "recipe_id", recipeID, "user_id", viewer.UserID)
	return nil
}

func (s *membershipService) ensureRecipe(ctx context.Context, tx *repository.Store, recipeID int64) error {
	exists, err := tx.Recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NotFoundf("recipe %d not found", recipeID)
	}
	return nil
}

func (s *membershipService) alreadyMember() *shared.Error {
	return shared.Conflict("recipe is already in " + s.relation)
}

func (s *membershipService) toggleError(op string, err error) error {
	if shared.KindOf(err) != "" {
		return err
	}
	return integrityError(s.log, op, err)
}
