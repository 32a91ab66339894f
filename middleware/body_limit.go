package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadBodyLimit rejects upload requests larger than maxSizeMB.
func UploadBodyLimit(maxSizeMB int) gin.HandlerFunc {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	maxBytes := int64(maxSizeMB) * 1024 * 1024

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload must not exceed %dMB", maxSizeMB)})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
