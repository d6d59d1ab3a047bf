package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/infrastructure/config"
)

// RedisCatalogCache is a read-through cache in front of a catalog.Reader.
// Cache failures degrade to the underlying reader; a Redis outage slows
// lookups down but never fails them.
type RedisCatalogCache struct {
	next       catalog.Reader
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// NewRedisCatalogCache creates a cache with its own Redis client
func NewRedisCatalogCache(next catalog.Reader, cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCatalogCache{
		next:       next,
		client:     client,
		ownsClient: true,
		ttl:        ttl,
		logger:     logger,
	}, nil
}

// NewRedisCatalogCacheWithClient creates a cache over an existing Redis
// client. The caller retains ownership of the client.
func NewRedisCatalogCacheWithClient(next catalog.Reader, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ProductByID resolves a product, serving from cache when possible
func (c *RedisCatalogCache) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	key := productKey(id)

	var cached catalog.Product
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := c.next.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, product)
	return product, nil
}

// CategoryByID resolves a category, serving from cache when possible
func (c *RedisCatalogCache) CategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	key := categoryKey(id)

	var cached catalog.Category
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	category, err := c.next.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, category)
	return category, nil
}

// Close releases the Redis client when this cache owns it
func (c *RedisCatalogCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

func (c *RedisCatalogCache) lookup(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("catalog cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisCatalogCache) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode catalog cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

func categoryKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:category:%s", id)
}

var _ catalog.Reader = (*RedisCatalogCache)(nil)
