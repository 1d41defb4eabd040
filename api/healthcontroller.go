package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/", handleRoot)
	r.GET("/api/health", handleHealth)
}

func handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "API is running...")
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
