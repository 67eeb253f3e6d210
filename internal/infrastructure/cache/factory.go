package cache

import (
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/sitestock/backend/internal/application/catalog"
	"github.com/sitestock/backend/internal/infrastructure/config"
)

// MaterialCacheFactory creates material caches based on configuration
type MaterialCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// MaterialCacheFactoryOption is a functional option for configuring the factory
type MaterialCacheFactoryOption func(*MaterialCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) MaterialCacheFactoryOption {
	return func(f *MaterialCacheFactory) {
		f.logger = logger
	}
}

// WithTTL sets the entry time-to-live for created caches
func WithTTL(ttl time.Duration) MaterialCacheFactoryOption {
	return func(f *MaterialCacheFactory) {
		f.ttl = ttl
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) MaterialCacheFactoryOption {
	return func(f *MaterialCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewMaterialCacheFactory creates a new factory
func NewMaterialCacheFactory(cfg config.RedisConfig, opts ...MaterialCacheFactoryOption) *MaterialCacheFactory {
	f := &MaterialCacheFactory{
		redisConfig:           cfg,
		ttl:                   defaultMaterialTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a material cache. It tries Redis first and falls back
// to an in-memory cache when Redis is unavailable and fallback is allowed.
func (f *MaterialCacheFactory) CreateCache() (appcatalog.MaterialCache, error) {
	cache, err := NewRedisMaterialCache(f.redisConfig,
		WithCacheTTL(f.ttl),
		WithCacheLogger(f.logger),
	)
	if err == nil {
		f.logger.Info("using Redis material cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, using in-memory material cache", zap.Error(err))
	return NewInMemoryMaterialCache(f.ttl), nil
}
