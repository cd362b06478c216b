package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/service"
	"go.uber.org/zap"
)

// HistoryHandler implements history and adherence API endpoints
type HistoryHandler struct {
	service *service.AdherenceService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(service *service.AdherenceService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// ListRange returns history records for a date range, most recent first
func (h *HistoryHandler) ListRange(c *gin.Context) {
	startDate, endDate, ok := dateRangeParams(c)
	if !ok {
		return
	}

	history, err := h.service.History(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.logger.Error("failed to list history",
			zap.Error(err),
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
		)
		respondServiceError(c, err, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, history)
}

// ListForMedication returns history records for one medication, including
// records of deleted medications
func (h *HistoryHandler) ListForMedication(c *gin.Context) {
	medicationID := c.Param("medicationId")

	history, err := h.service.MedicationHistory(c.Request.Context(), medicationID)
	if err != nil {
		h.logger.Error("failed to list medication history",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		respondServiceError(c, err, "Failed to list medication history")
		return
	}

	c.JSON(http.StatusOK, history)
}

// Adherence returns the adherence report for a date range
func (h *HistoryHandler) Adherence(c *gin.Context) {
	startDate, endDate, ok := dateRangeParams(c)
	if !ok {
		return
	}

	report, err := h.service.Report(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.logger.Error("failed to compute adherence report",
			zap.Error(err),
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
		)
		respondServiceError(c, err, "Failed to compute adherence report")
		return
	}

	c.JSON(http.StatusOK, report)
}
