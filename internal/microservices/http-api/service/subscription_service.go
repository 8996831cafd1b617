package service

import (
	"context"
	"errors"
	"log/slog"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

type SubscriptionService interface {
	// Subscribe follows authorID and returns the author with a recipe preview.
	Subscribe(ctx context.Context, viewer shared.Viewer, authorID string, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, viewer shared.Viewer, authorID string) error
	List(ctx context.Context, viewer shared.Viewer, page PageRequest, recipesLimit int) ([]AuthorView, int64, error)
}

type subscriptionService struct {
	store     *repository.Store
	projector *Projector
	log       *slog.Logger
	pageSize  int
}

func NewSubscriptionService(store *repository.Store, projector *Projector, log *slog.Logger, pageSize int) SubscriptionService {
	return &subscriptionService{store: store, projector: projector, log: log, pageSize: pageSize}
}

var errSelfSubscription = shared.Validation("author", "you cannot subscribe to yourself")

func (s *subscriptionService) Subscribe(ctx context.Context, viewer shared.Viewer, authorID string, recipesLimit int) (*AuthorView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	id, ok := canonicalUserID(authorID)
	if !ok {
		return nil, shared.NotFoundf("user %s not found", authorID)
	}
	authorID = id
	// rejected whatever the current state is
	if viewer.UserID == authorID {
		return nil, errSelfSubscription
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureUser(ctx, tx, authorID); err != nil {
			return err
		}
		present, err := tx.Subscriptions.Exists(ctx, viewer.UserID, authorID)
		if err != nil {
			return err
		}
		if present {
			return shared.Conflict("already subscribed to this author")
		}
		return tx.Subscriptions.Add(ctx, viewer.UserID, authorID)
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, shared.Conflict("already subscribed to this author").WithCause(err)
	case errors.Is(err, repository.ErrCheckViolation):
		return nil, errSelfSubscription.WithCause(err)
	case err != nil && shared.KindOf(err) == "":
		return nil, integrityError(s.log, "subscribe", err)
	case err != nil:
		return nil, err
	}
	s.log.Debug("subscribed", "subscriber_id", viewer.UserID, "author_id", authorID)

	author, err := s.store.Users.FindAnnotated(ctx, authorID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	views, err := s.projector.ProjectSubscriptionList(ctx, viewer, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, viewer shared.Viewer, authorID string) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	id, ok := canonicalUserID(authorID)
	if !ok {
		return shared.NotFoundf("user %s not found", authorID)
	}
	authorID = id

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureUser(ctx, tx, authorID); err != nil {
			return err
		}
		return tx.Subscriptions.Remove(ctx, viewer.UserID, authorID)
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return shared.Conflict("not subscribed to this author")
	case err != nil && shared.KindOf(err) == "":
		return integrityError(s.log, "unsubscribe", err)
	case err != nil:
		return err
	}
	s.log.Debug("unsubscribed", "subscriber_id", viewer.UserID, "author_id", authorID)
	return nil
}

func (s *subscriptionService) List(ctx context.Context, viewer shared.Viewer, page PageRequest, recipesLimit int) ([]AuthorView, int64, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, 0, err
	}
	page = page.Normalize(s.pageSize)

	authors, total, err := s.store.Users.ListSubscriptions(ctx, viewer.UserID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	views, err := s.projector.ProjectSubscriptionList(ctx, viewer, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func ensureUser(ctx context.Context, tx *repository.Store, id string) error {
	exists, err := tx.Users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NotFoundf("user %s not found", id)
	}
	return nil
}
