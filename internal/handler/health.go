package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/storage"
	"go.uber.org/zap"
)

// HealthHandler implements the service health check
type HealthHandler struct {
	store  storage.KeyValue
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store storage.KeyValue, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// Check probes the storage collaborator and reports service health
func (h *HealthHandler) Check(c *gin.Context) {
	if _, err := h.store.Get(c.Request.Context(), storage.KeyMedications); err != nil {
		h.logger.Error("health check failed: storage unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": "unavailable",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": "available",
		"service": "medtrack-backend",
		"version": "1.0.0",
	})
}
