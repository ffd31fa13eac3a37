package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"planward/utils"
)

// RecoveryMiddleware turns panics into 500s and counts them.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				utils.TrackError("panic", "handler")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
