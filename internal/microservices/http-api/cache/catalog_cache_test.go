package cache

import (
	"context"
	"testing"
	"time"

	"recipehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCatalogCache_NilIsNoop(t *testing.T) {
	var c *CatalogCache
	ctx := context.Background()

	assert.NoError(t, c.SetTags(ctx, []models.Tag{{ID: 1, Name: "Breakfast"}}))
	tags, ok := c.Tags(ctx)
	assert.False(t, ok)
	assert.Empty(t, tags)

	assert.NoError(t, c.SetProducts(ctx, "fl", []models.Product{{ID: 1, Name: "flour"}}))
	_, ok = c.Products(ctx, "fl")
	assert.False(t, ok)

	assert.NoError(t, c.InvalidateTags(ctx))
	assert.NoError(t, c.InvalidateProducts(ctx))
	assert.NoError(t, c.Close())
}

func TestNewCatalogCache_InvalidURL(t *testing.T) {
	_, err := NewCatalogCache("not-a-url", "", time.Minute)
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestProductKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, productKey("Fl"), productKey("fl"))
}
