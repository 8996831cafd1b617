package service

import (
	"context"
	"testing"

	"recipehub/internal/logger"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *storeSuite) TestCatalog_Tags() {
	_, err := s.catalog.CreateTag(s.ctx, TagInput{Name: "Dinner", Color: "#49b64e", Slug: "dinner"})
	s.Require().NoError(err)
	breakfast, err := s.catalog.CreateTag(s.ctx, TagInput{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	s.Require().NoError(err)

	_, err = s.catalog.CreateTag(s.ctx, TagInput{Name: "Supper", Color: "#000000", Slug: "dinner"})
	s.ErrorIs(err, shared.ErrConflict)

	tags, err := s.catalog.ListTags(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tags, 2)
	s.Equal("Breakfast", tags[0].Name)
	s.Equal("#49B64E", tags[1].Color)

	got, err := s.catalog.GetTag(s.ctx, breakfast.ID)
	s.Require().NoError(err)
	s.Equal("breakfast", got.Slug)

	s.Require().NoError(s.catalog.DeleteTag(s.ctx, breakfast.ID))
	s.ErrorIs(s.catalog.DeleteTag(s.ctx, breakfast.ID), shared.ErrNotFound)
	_, err = s.catalog.GetTag(s.ctx, breakfast.ID)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *storeSuite) TestCatalog_ProductSearch() {
	for _, name := range []string{"Sugar", "salt", "sour cream", "flour", "50%_mix"} {
		_, err := s.catalog.CreateProduct(s.ctx, ProductInput{Name: name, Unit: "g"})
		s.Require().NoError(err)
	}

	found, err := s.catalog.SearchProducts(s.ctx, "S")
	s.Require().NoError(err)
	names := make([]string, 0, len(found))
	for _, p := range found {
		names = append(names, p.Name)
	}
	s.ElementsMatch([]string{"Sugar", "salt", "sour cream"}, names)

	found, err = s.catalog.SearchProducts(s.ctx, "50%_")
	s.Require().NoError(err)
	s.Len(found, 1)

	found, err = s.catalog.SearchProducts(s.ctx, "%")
	s.Require().NoError(err)
	s.Empty(found)

	all, err := s.catalog.SearchProducts(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 5)

	_, err = s.catalog.CreateProduct(s.ctx, ProductInput{Name: "flour", Unit: "kg"})
	s.ErrorIs(err, shared.ErrConflict)
}

func (s *storeSuite) TestCatalog_DeleteProductInUse() {
	author := s.newUser("author")
	flour := s.newProduct("flour", "g")
	spare := s.newProduct("spare", "g")
	s.newRecipe(author, "Bread", IngredientInput{ProductID: flour, Amount: 1})

	err := s.catalog.DeleteProduct(s.ctx, flour)
	s.ErrorIs(err, shared.ErrConflict)
	s.Equal(int64(1), s.count(&models.Product{}, "id = ?", flour))

	s.Require().NoError(s.catalog.DeleteProduct(s.ctx, spare))
	s.ErrorIs(s.catalog.DeleteProduct(s.ctx, spare), shared.ErrNotFound)
}

type mockCatalogCache struct {
	mock.Mock
}

func (m *mockCatalogCache) Tags(ctx context.Context) ([]models.Tag, bool) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]models.Tag)
	return tags, args.Bool(1)
}

func (m *mockCatalogCache) SetTags(ctx context.Context, tags []models.Tag) error {
	return m.Called(ctx, tags).Error(0)
}

func (m *mockCatalogCache) Products(ctx context.Context, prefix string) ([]models.Product, bool) {
	args := m.Called(ctx, prefix)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Bool(1)
}

func (m *mockCatalogCache) SetProducts(ctx context.Context, prefix string, products []models.Product) error {
	return m.Called(ctx, prefix, products).Error(0)
}

func (m *mockCatalogCache) InvalidateTags(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCatalogCache) InvalidateProducts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubTagRepository struct {
	tags    []models.Tag
	listed  int
	created []*models.Tag
}

func (r *stubTagRepository) Create(_ context.Context, tag *models.Tag) error {
	tag.ID = int64(len(r.created) + 1)
	r.created = append(r.created, tag)
	return nil
}

func (r *stubTagRepository) List(context.Context) ([]models.Tag, error) {
	r.listed++
	return r.tags, nil
}

func (r *stubTagRepository) GetByID(context.Context, int64) (*models.Tag, error) { return nil, nil }
func (r *stubTagRepository) Delete(context.Context, int64) error { return nil }
func (r *stubTagRepository) CountExisting(context.Context, []int64) (int64, error) {
	return 0, nil
}

func TestCatalogService_ListTagsUsesCache(t *testing.T) {
	ctx := context.Background()
	cached := []models.Tag{{ID: 1, Name: "Lunch", Color: "#8775D2", Slug: "lunch"}}

	cache := new(mockCatalogCache)
	cache.On("Tags", ctx).Return(cached, true).Once()
	repo := &stubTagRepository{}

	svc := NewCatalogService(repo, nil, cache, logger.Discard())
	tags, err := svc.ListTags(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, tags)
	assert.Zero(t, repo.listed)
	cache.AssertExpectations(t)
}

func TestCatalogService_ListTagsFillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	stored := []models.Tag{{ID: 2, Name: "Dinner", Color: "#49B64E", Slug: "dinner"}}

	cache := new(mockCatalogCache)
	cache.On("Tags", ctx).Return(nil, false).Once()
	cache.On("SetTags", ctx, stored).Return(assert.AnError).Once()
	repo := &stubTagRepository{tags: stored}

	svc := NewCatalogService(repo, nil, cache, logger.Discard())
	tags, err := svc.ListTags(ctx)

	require.NoError(t, err, "a failing cache write is only logged")
	assert.Equal(t, stored, tags)
	assert.Equal(t, 1, repo.listed)
	cache.AssertExpectations(t)
}

func TestCatalogService_CreateTagInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := new(mockCatalogCache)
	cache.On("InvalidateTags", ctx).Return(nil).Once()
	repo := &stubTagRepository{}

	svc := NewCatalogService(repo, nil, cache, logger.Discard())
	tag, err := svc.CreateTag(ctx, TagInput{Name: " Brunch ", Color: "#abcdef", Slug: "brunch"})

	require.NoError(t, err)
	assert.Equal(t, "Brunch", tag.Name)
	assert.Equal(t, "#ABCDEF", tag.Color)
	cache.AssertNotCalled(t, "InvalidateProducts", mock.Anything)
	cache.AssertExpectations(t)
}
