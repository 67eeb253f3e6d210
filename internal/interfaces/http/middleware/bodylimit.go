package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitestock/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. Requests with an
// oversized Content-Length are refused up front; chunked bodies are capped
// while streaming via MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge,
					"Request body exceeds maximum allowed size", getRequestIDFromContext(c)))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
