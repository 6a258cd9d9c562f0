package api

import (
	"time"

	"safecity/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Request(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
