package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	Delete(ctx context.Context, id int64) error
	CountExisting(ctx context.Context, ids []int64) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return wrap("create tag", r.db.WithContext(ctx).Create(tag).Error)
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, wrap("list tags", err)
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, wrap("get tag", err)
	}
	return &tag, nil
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return wrap("delete tag", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("delete tag", ErrNotFound)
	}
	return nil
}

func (r *tagRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, wrap("count tags", err)
	}
	return count, nil
}
