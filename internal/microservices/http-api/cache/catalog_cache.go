package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	tagsKey          = "catalog:tags"
	productKeyPrefix = "catalog:products:"
)

// CatalogCache keeps tag lists and product search results in Redis. Both are reference
// data that only admin writes change, so writes drop the affected keys.
// A nil *CatalogCache or one without a client is a valid no-op cache.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache connects to Redis at url (redis://host:port/db).
func NewCatalogCache(url, password string, ttl time.Duration) (*CatalogCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CatalogCache{client: rdb, ttl: ttl}, nil
}

func (c *CatalogCache) enabled() bool {
	return c != nil && c.client != nil
}

// Tags returns the cached tag list and whether it was found.
func (c *CatalogCache) Tags(ctx context.Context) ([]models.Tag, bool) {
	var tags []models.Tag
	return tags, c.get(ctx, tagsKey, &tags)
}

func (c *CatalogCache) SetTags(ctx context.Context, tags []models.Tag) error {
	return c.set(ctx, tagsKey, tags)
}

// Products returns the cached search result for a name prefix.
func (c *CatalogCache) Products(ctx context.Context, prefix string) ([]models.Product, bool) {
	var products []models.Product
	return products, c.get(ctx, productKey(prefix), &products)
}

func (c *CatalogCache) SetProducts(ctx context.Context, prefix string, products []models.Product) error {
	return c.set(ctx, productKey(prefix), products)
}

func (c *CatalogCache) InvalidateTags(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, tagsKey).Err()
}

// InvalidateProducts drops every cached product search.
func (c *CatalogCache) InvalidateProducts(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *CatalogCache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil is a plain miss, anything else is treated as one too
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *CatalogCache) set(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func productKey(prefix string) string {
	return productKeyPrefix + strings.ToLower(prefix)
}
