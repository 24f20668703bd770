package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes the standard success envelope.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the standard error envelope.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
