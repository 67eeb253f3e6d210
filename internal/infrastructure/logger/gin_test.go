package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newObservedGinRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func serveStatus(router *gin.Engine, path string, status int) {
	router.GET(path, func(c *gin.Context) {
		c.Status(status)
	})
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs a completed request at info", func(t *testing.T) {
		router, recorded := newObservedGinRouter(zapcore.InfoLevel)
		serveStatus(router, "/api/v1/catalog/materials", http.StatusOK)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/materials?page=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "http request", entry.Message)

		fields := entry.ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/catalog/materials", fields["path"])
		assert.Equal(t, "page=2", fields["query"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		router, recorded := newObservedGinRouter(zapcore.InfoLevel)
		serveStatus(router, "/test", http.StatusUnprocessableEntity)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
	})

	t.Run("server errors log at error", func(t *testing.T) {
		router, recorded := newObservedGinRouter(zapcore.InfoLevel)
		serveStatus(router, "/test", http.StatusInternalServerError)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.ErrorLevel, recorded.All()[0].Level)
	})

	t.Run("carries the request id from the request context", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		// simulate the request id middleware running first
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-igrf-42"))
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		serveStatus(router, "/test", http.StatusOK)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "req-igrf-42", recorded.All()[0].ContextMap()["request_id"])
	})

	t.Run("collects gin errors", func(t *testing.T) {
		router, recorded := newObservedGinRouter(zapcore.InfoLevel)
		router.GET("/test", func(c *gin.Context) {
			_ = c.Error(assert.AnError)
			c.Status(http.StatusInternalServerError)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Contains(t, fields, "errors")
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("balance cache corrupted")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "balance cache corrupted", entry.ContextMap()["error"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request scoped logger", func(t *testing.T) {
		router, recorded := newObservedGinRouter(zapcore.InfoLevel)
		router.GET("/test", func(c *gin.Context) {
			GetGinLogger(c).Info("handler detail")
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 2, recorded.Len())
		assert.Equal(t, "handler detail", recorded.All()[0].Message)
	})

	t.Run("returns a no-op logger outside a request", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		log := GetGinLogger(c)
		require.NotNil(t, log)
		log.Info("does not panic")
	})
}
