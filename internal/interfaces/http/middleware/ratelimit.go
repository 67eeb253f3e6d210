package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sitestock/backend/internal/infrastructure/config"
	"github.com/sitestock/backend/internal/interfaces/http/dto"
)

const rateLimitKeyPrefix = "sitestock:ratelimit:"

// RateLimitStore counts hits per key within a fixed window. The first hit of
// a window returns 1; the count resets when the window expires.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisRateLimitStore counts hits in Redis so the limit holds across
// replicas. Each key is INCRed and given the window as TTL on first hit.
type RedisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore connects to Redis and verifies the connection
func NewRedisRateLimitStore(cfg config.RedisConfig) (*RedisRateLimitStore, error) {
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

	return &RedisRateLimitStore{client: client}, nil
}

// Hit increments the key's window counter
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, rateLimitKeyPrefix+key)
	pipe.ExpireNX(ctx, rateLimitKeyPrefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Close closes the underlying Redis client
func (s *RedisRateLimitStore) Close() error {
	return s.client.Close()
}

// MemoryRateLimitStore keeps window counters in process memory. It serves
// single-instance deployments and doubles as the fallback when Redis is down.
type MemoryRateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]*fixedWindow
	lastPrune time.Time
}

type fixedWindow struct {
	count   int64
	expires time.Time
}

// NewMemoryRateLimitStore creates an in-memory store
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows:   make(map[string]*fixedWindow),
		lastPrune: time.Now(),
	}
}

// Hit increments the key's window counter, pruning expired windows as it goes
func (s *MemoryRateLimitStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastPrune) > window {
		for k, w := range s.windows {
			if now.After(w.expires) {
				delete(s.windows, k)
			}
		}
		s.lastPrune = now
	}

	w, ok := s.windows[key]
	if !ok || now.After(w.expires) {
		w = &fixedWindow{expires: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// RateLimiter enforces a per-key request cap over a fixed window. When the
// primary store errors (Redis outage) it switches to an in-memory fallback
// rather than letting requests through uncounted.
type RateLimiter struct {
	store    RateLimitStore
	fallback *MemoryRateLimitStore
	limit    int64
	window   time.Duration
	logger   *zap.Logger
}

// RateLimiterOption is a functional option for configuring the limiter
type RateLimiterOption func(*RateLimiter)

// WithRateLimitLogger sets the logger for store failures
func WithRateLimitLogger(logger *zap.Logger) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.logger = logger
	}
}

// NewRateLimiter creates a limiter over the given store
func NewRateLimiter(store RateLimitStore, limit int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		store:    store,
		fallback: NewMemoryRateLimitStore(),
		limit:    int64(limit),
		window:   window,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Allow records a hit for the key and reports whether it is within the limit
// along with the remaining budget for the current window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (remaining int64, ok bool) {
	count, err := rl.store.Hit(ctx, key, rl.window)
	if err != nil {
		rl.logger.Warn("rate limit store unavailable, using in-memory fallback",
			zap.Error(err))
		count, _ = rl.fallback.Hit(ctx, key, rl.window)
	}

	remaining = rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, count <= rl.limit
}

// Limit returns the configured per-window cap
func (rl *RateLimiter) Limit() int64 {
	return rl.limit
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey limits requests using a custom key extractor. Over-limit
// requests get a 429 with the standard error envelope.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		remaining, ok := limiter.Allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limiter.Limit(), 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited,
					"Too many requests, slow down", getRequestIDFromContext(c)))
			return
		}

		c.Next()
	}
}
