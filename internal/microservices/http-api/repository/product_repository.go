package repository

import (
	"context"
	"strings"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// SearchByPrefix returns products whose name starts with prefix, case-insensitively.
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Product, error)
	Delete(ctx context.Context, id int64) error
	// CountExisting returns how many of ids are present.
	CountExisting(ctx context.Context, ids []int64) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	return wrap("create product", r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("get product", err)
	}
	return &p, nil
}

func (r *productRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Product, error) {
	var list []models.Product
	q := r.db.WithContext(ctx).Order("name, id")
	if prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, wrap("search products", err)
	}
	return list, nil
}

// Delete removes a product. Products referenced by an ingredient line fail with ErrForeignKey.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return wrap("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("delete product", ErrNotFound)
	}
	return nil
}

func (r *productRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, wrap("count products", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
