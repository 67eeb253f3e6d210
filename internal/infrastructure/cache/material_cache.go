package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/sitestock/backend/internal/application/catalog"
	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/infrastructure/config"
)

const (
	materialKeyPrefix  = "sitestock:material:"
	defaultMaterialTTL = 5 * time.Minute
)

// RedisMaterialCache implements MaterialCache using Redis. Entries are
// JSON-encoded with a short TTL; a cache failure is never fatal, the caller
// just falls through to the database.
type RedisMaterialCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisMaterialCacheOption is a functional option for configuring the cache
type RedisMaterialCacheOption func(*RedisMaterialCache)

// WithCacheTTL sets the entry time-to-live
func WithCacheTTL(ttl time.Duration) RedisMaterialCacheOption {
	return func(c *RedisMaterialCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisMaterialCacheOption {
	return func(c *RedisMaterialCache) {
		c.logger = logger
	}
}

// NewRedisMaterialCache creates a new Redis-backed material cache
func NewRedisMaterialCache(cfg config.RedisConfig, opts ...RedisMaterialCacheOption) (*RedisMaterialCache, error) {
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

	cache := &RedisMaterialCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultMaterialTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// Get returns the cached material for the id, if present
func (c *RedisMaterialCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Material, bool) {
	data, err := c.client.Get(ctx, materialKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("material cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var material catalog.Material
	if err := json.Unmarshal(data, &material); err != nil {
		c.logger.Warn("material cache entry corrupt, dropping", zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &material, true
}

// Set stores a material under its id
func (c *RedisMaterialCache) Set(ctx context.Context, material *catalog.Material) {
	data, err := json.Marshal(material)
	if err != nil {
		c.logger.Warn("material cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, materialKey(material.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("material cache write failed", zap.Error(err))
	}
}

// Invalidate removes a material from the cache
func (c *RedisMaterialCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, materialKey(id)).Err(); err != nil {
		c.logger.Warn("material cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis client if this cache owns it
func (c *RedisMaterialCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

func materialKey(id uuid.UUID) string {
	return materialKeyPrefix + id.String()
}

// Ensure RedisMaterialCache implements MaterialCache
var _ appcatalog.MaterialCache = (*RedisMaterialCache)(nil)
