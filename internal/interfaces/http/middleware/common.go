package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/infrastructure/logger"
)

// CORSConfig holds the cross-origin policy for the API. An empty AllowOrigins
// list rejects every cross-origin request, so deployments must list their
// frontend origins explicitly (http.cors_allow_origins in config).
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns the policy used when no origins are configured:
// deny all cross-origin callers but advertise the headers the API speaks.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID", "Accept", "Origin"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS returns the cross-origin middleware with the default (deny-all) policy
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig returns the cross-origin middleware. Preflight OPTIONS
// requests are always answered with 204 so they never fall through to the
// router as 404s; CORS headers are attached only when the origin matches.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	match := originMatcher(cfg.AllowOrigins)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowed, wildcard := match(origin)

		if allowed {
			h := c.Writer.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}
			h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			if len(cfg.ExposeHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// originMatcher precomputes the whitelist lookup. The returned func reports
// whether the origin may be served and whether the wildcard form applies
// (credentials are never combined with the wildcard).
func originMatcher(origins []string) func(origin string) (allowed, wildcard bool) {
	whitelist := make(map[string]struct{}, len(origins))
	hasWildcard := false
	for _, o := range origins {
		if o == "*" {
			hasWildcard = true
			continue
		}
		whitelist[o] = struct{}{}
	}

	return func(origin string) (bool, bool) {
		if hasWildcard {
			return true, true
		}
		if origin == "" {
			return false, false
		}
		_, ok := whitelist[origin]
		return ok, false
	}
}

// RequestID propagates the caller's X-Request-ID or mints one, making it
// available three ways: the gin context (error envelopes read it through
// RequestIDKey), the response header, and the request's context.Context so
// repository and SQL logs can be correlated with the HTTP log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// SecurityConfig controls the response security headers. HSTS is off unless
// the deployment terminates TLS itself; everything else is always sent since
// this is a JSON API that no browser should frame or sniff.
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
}

// DefaultSecurityConfig returns the header set for a plain-HTTP deployment
// behind a TLS-terminating proxy.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSEnabled:           false,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
	}
}

// Secure adds security headers using the default configuration
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig adds security headers to every response
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	var hsts string
	if cfg.HSTSEnabled {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
