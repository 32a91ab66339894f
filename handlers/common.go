package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"snapgram/middleware"

	"github.com/gin-gonic/gin"
)

const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 30 * time.Second

	defaultPageLimit = 10
	maxPageLimit     = 100
)

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// pagination reads ?limit= and ?skip=. It writes a 400 and returns false on
// malformed values.
func pagination(c *gin.Context) (limit, skip int64, ok bool) {
	limit, skip = defaultPageLimit, 0

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return 0, 0, false
		}
		limit = min(v, maxPageLimit)
	}
	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
			return 0, 0, false
		}
		skip = v
	}
	return limit, skip, true
}
