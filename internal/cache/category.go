package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cascade/form/internal/domain"

	"github.com/redis/go-redis/v9"
)

// CategoryCache keeps the fetched category tree between sessions and restarts.
type CategoryCache interface {
	// Load reports false when nothing is cached.
	Load(ctx context.Context) ([]domain.Category, bool, error)
	Store(ctx context.Context, categories []domain.Category) error
}

type redisCategoryCache struct {
	redisClient *redis.Client
	key         string
	ttl         time.Duration
}

func NewRedisCategoryCache(redisClient *redis.Client, ttl time.Duration) CategoryCache {
	return &redisCategoryCache{
		redisClient: redisClient,
		key:         "cascade:categories",
		ttl:         ttl,
	}
}

func (c *redisCategoryCache) Load(ctx context.Context) ([]domain.Category, bool, error) {
	val, err := c.redisClient.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached categories: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(val, &categories); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached categories: %w", err)
	}

	return categories, true, nil
}

func (c *redisCategoryCache) Store(ctx context.Context, categories []domain.Category) error {
	val, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	if err := c.redisClient.Set(ctx, c.key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}
	return nil
}

type noopCategoryCache struct{}

// NewNoopCategoryCache is used when redis is disabled.
func NewNoopCategoryCache() CategoryCache {
	return noopCategoryCache{}
}

func (noopCategoryCache) Load(context.Context) ([]domain.Category, bool, error) {
	return nil, false, nil
}

func (noopCategoryCache) Store(context.Context, []domain.Category) error {
	return nil
}
