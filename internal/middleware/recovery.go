package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomiox/resusbih/internal/logger"
)

// Recovery catches panics, logs them, and returns a 500 without killing the
// process. The preview dispatcher resolves its own failures to pass-through
// before they reach here; this guards everything else.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("panic", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
