package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxRequestBodySize caps incoming request bodies. Model uploads dominate
// request size; anything larger than this is rejected before parsing.
const MaxRequestBodySize = 100 * 1024 * 1024

// BodyLimit returns middleware that caps the request body at maxBytes.
// Reads past the limit fail inside the handler, which surfaces as a
// validation error rather than an unbounded allocation.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_TOO_LARGE",
					"message": "Request body exceeds the maximum allowed size",
				},
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
