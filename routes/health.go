package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes registers the liveness probe.
func SetupHealthRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
