package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"policyminer/orchestrator"
)

// RegisterEmailRoutes registers the pipeline endpoints.
func RegisterEmailRoutes(r *gin.Engine) {
	g := r.Group("/api/v1")
	g.GET("/emails", handleExtractEmails)
}

// handleExtractEmails triggers one full pipeline run and returns the output
// collection. A run that matched nothing returns an empty array; a failed
// run maps to 502 rather than masking the failure behind a 200.
func handleExtractEmails(c *gin.Context) {
	records, err := orchestrator.RunOnce(c.Request.Context())
	if err != nil {
		log.Printf("Pipeline run failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}
