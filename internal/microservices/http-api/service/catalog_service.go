package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"
)

// CatalogCache stores reference data between requests. Implementations must treat
// failures as misses.
type CatalogCache interface {
	Tags(ctx context.Context) ([]models.Tag, bool)
	SetTags(ctx context.Context, tags []models.Tag) error
	Products(ctx context.Context, prefix string) ([]models.Product, bool)
	SetProducts(ctx context.Context, prefix string, products []models.Product) error
	InvalidateTags(ctx context.Context) error
	InvalidateProducts(ctx context.Context) error
}

type TagInput struct {
	Name  string
	Color string
	Slug  string
}

type ProductInput struct {
	Name string
	Unit string
}

// CatalogService serves tags and products (ingredients), the reference data recipes point at.
type CatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	CreateTag(ctx context.Context, in TagInput) (*models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	SearchProducts(ctx context.Context, prefix string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	tags     repository.TagRepository
	products repository.ProductRepository
	cache    CatalogCache
	log      *slog.Logger
}

// NewCatalogService builds the catalog service. A nil cache disables caching.
func NewCatalogService(tags repository.TagRepository, products repository.ProductRepository, cache CatalogCache, log *slog.Logger) CatalogService {
	if cache == nil {
		cache = noCache{}
	}
	return &catalogService{tags: tags, products: products, cache: cache, log: log}
}

func (s *catalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if tags, ok := s.cache.Tags(ctx); ok {
		return tags, nil
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetTags(ctx, tags); err != nil {
		s.log.Warn("failed to cache tags", "error", err)
	}
	return tags, nil
}

func (s *catalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shared.NotFoundf("tag %d not found", id)
	}
	return tag, err
}

func (s *catalogService) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	tag := &models.Tag{
		Name:  strings.TrimSpace(in.Name),
		Color: strings.ToUpper(in.Color),
		Slug:  in.Slug,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, shared.Conflict("tag with this name, color or slug already exists").WithCause(err)
		}
		return nil, err
	}
	s.invalidate(ctx, s.cache.InvalidateTags)
	return tag, nil
}

func (s *catalogService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return shared.NotFoundf("tag %d not found", id)
		}
		return err
	}
	s.invalidate(ctx, s.cache.InvalidateTags)
	return nil
}

// SearchProducts matches products whose name starts with prefix, ignoring case.
func (s *catalogService) SearchProducts(ctx context.Context, prefix string) ([]models.Product, error) {
	prefix = strings.TrimSpace(prefix)
	if products, ok := s.cache.Products(ctx, prefix); ok {
		return products, nil
	}
	products, err := s.products.SearchByPrefix(ctx, prefix, 0)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProducts(ctx, prefix, products); err != nil {
		s.log.Warn("failed to cache products", "prefix", prefix, "error", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shared.NotFoundf("ingredient %d not found", id)
	}
	return product, err
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{Name: strings.TrimSpace(in.Name), Unit: strings.TrimSpace(in.Unit)}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, shared.Conflict("ingredient with this name already exists").WithCause(err)
		}
		return nil, err
	}
	s.invalidate(ctx, s.cache.InvalidateProducts)
	return product, nil
}

// DeleteProduct refuses to remove a product that any recipe still uses.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return shared.NotFoundf("ingredient %d not found", id)
		case errors.Is(err, repository.ErrForeignKey):
			return shared.Conflict("ingredient is used by existing recipes").WithCause(err)
		}
		return err
	}
	s.invalidate(ctx, s.cache.InvalidateProducts)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		s.log.Warn("failed to invalidate catalog cache", "error", err)
	}
}

type noCache struct{}

func (noCache) Tags(context.Context) ([]models.Tag, bool) { return nil, false }
func (noCache) SetTags(context.Context, []models.Tag) error { return nil }
func (noCache) Products(context.Context, string) ([]models.Product, bool) { return nil, false }
func (noCache) SetProducts(context.Context, string, []models.Product) error { return nil }
func (noCache) InvalidateTags(context.Context) error { return nil }
func (noCache) InvalidateProducts(context.Context) error { return nil }
