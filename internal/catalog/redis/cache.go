// Package redis provides a cache-aside decorator for catalog.Catalog.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmate/storefront/internal/catalog"
	"github.com/shopmate/storefront/internal/domain"
)

var errMissingID = errors.New("cached product has no id")

const (
	keyPrefix   = "catalog:"
	productsKey = keyPrefix + "products"
)

// CachedCatalog serves catalog reads from Redis and falls through to the
// wrapped catalog on a miss. Redis failures are logged and treated as misses,
// so the cache can disappear without taking the storefront down.
type CachedCatalog struct {
	next   catalog.Catalog
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedCatalog wraps next with a Redis cache whose entries live for ttl.
func NewCachedCatalog(next catalog.Catalog, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ListProducts implements catalog.Catalog.
func (c *CachedCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if c.load(ctx, productsKey, &products) {
		if !slices.ContainsFunc(products, func(p domain.Product) bool { return p.ID == "" }) {
			return products, nil
		}
		c.discard(ctx, productsKey, errMissingID)
	}

	products, err := c.next.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, productsKey, products)
	return products, nil
}

// GetProduct implements catalog.Catalog. Misses from the wrapped catalog are
// not cached.
func (c *CachedCatalog) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	key := productKey(id)

	var product domain.Product
	if c.load(ctx, key, &product) {
		if product.ID != "" {
			return &product, nil
		}
		c.discard(ctx, key, errMissingID)
	}

	p, err := c.next.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

// Ping reports whether Redis is reachable.
func (c *CachedCatalog) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.discard(ctx, key, err)
		return false
	}
	return true
}

// discard evicts an entry that cannot be served.
func (c *CachedCatalog) discard(ctx context.Context, key string, reason error) {
	c.logger.WarnContext(ctx, "discarding corrupt catalog cache entry",
		slog.String("key", key),
		slog.String("error", reason.Error()),
	)
	_ = c.client.Del(ctx, key).Err()
}

func (c *CachedCatalog) store(ctx context.Context, key string, v any) {
	if err := c.set(ctx, key, v); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (c *CachedCatalog) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func productKey(id domain.ProductID) string {
	return keyPrefix + "product:" + id.String()
}
