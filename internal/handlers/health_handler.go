package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/utils"
)

type HealthHandler struct {
	BaseHandler
	repo repositories.Repository
}

func NewHealthHandler(repo repositories.Repository, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		repo:        repo,
	}
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "interview-service",
	})
}

// Readiness also checks the database connection.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.LogError(c, err, "Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "interview-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
