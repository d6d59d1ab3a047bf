package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lanchonete/backend/internal/domain/catalog"
)

// InMemoryCatalogCache is a read-through catalog cache for single-instance
// deployments and tests. Entries expire by TTL and are evicted lazily on read.
type InMemoryCatalogCache struct {
	next       catalog.Reader
	ttl        time.Duration
	now        func() time.Time
	mu         sync.RWMutex
	products   map[uuid.UUID]productEntry
	categories map[uuid.UUID]categoryEntry
}

type productEntry struct {
	product   catalog.Product
	expiresAt time.Time
}

type categoryEntry struct {
	category  catalog.Category
	expiresAt time.Time
}

// NewInMemoryCatalogCache creates an in-memory catalog cache
func NewInMemoryCatalogCache(next catalog.Reader, ttl time.Duration) *InMemoryCatalogCache {
	return &InMemoryCatalogCache{
		next:       next,
		ttl:        ttl,
		now:        time.Now,
		products:   make(map[uuid.UUID]productEntry),
		categories: make(map[uuid.UUID]categoryEntry),
	}
}

// ProductByID resolves a product, serving from cache when possible
func (c *InMemoryCatalogCache) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	c.mu.RLock()
	entry, ok := c.products[id]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		product := entry.product
		return &product, nil
	}

	product, err := c.next.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.products[id] = productEntry{product: *product, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return product, nil
}

// CategoryByID resolves a category, serving from cache when possible
func (c *InMemoryCatalogCache) CategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	c.mu.RLock()
	entry, ok := c.categories[id]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		category := entry.category
		return &category, nil
	}

	category, err := c.next.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.categories[id] = categoryEntry{category: *category, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return category, nil
}

var _ catalog.Reader = (*InMemoryCatalogCache)(nil)
