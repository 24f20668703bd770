package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffKey gates staff endpoints behind a shared API key. Full identity and
// role checks live in the upstream gateway; the key only keeps the staff
// surface off the open internet.
func StaffKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}
