package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Add(ctx context.Context, subscriberID, authorID string) error
	// Remove deletes the edge; a missing edge yields ErrNotFound.
	Remove(ctx context.Context, subscriberID, authorID string) error
	Exists(ctx context.Context, subscriberID, authorID string) (bool, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, subscriberID, authorID string) error {
	sub := &models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Omit("Subscriber", "Author").Create(sub).Error; err != nil {
		return wrap("add subscription", err)
	}
	return nil
}

func (r *subscriptionRepository) Remove(ctx context.Context, subscriberID, authorID string) error {
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return wrap("remove subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("remove subscription", ErrNotFound)
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error; err != nil {
		return false, wrap("check subscription", err)
	}
	return count > 0, nil
}

func (r *subscriptionRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, wrap("count subscriptions", err)
	}
	return count, nil
}
