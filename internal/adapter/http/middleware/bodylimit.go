package middleware

import (
	"net/http"

	"bank-account-service/pkg/apperror"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes caps request bodies at 1 MB.
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodySize returns middleware that limits the request body size.
// Requests declaring a larger Content-Length are rejected up front; for the
// rest the reader fails once the limit is exceeded.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.ErrPayloadTooLarge(maxBytes))
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
