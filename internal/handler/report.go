package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements report generation and backup endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateReportRequest is the JSON body for report generation
type GenerateReportRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// Generate renders an adherence report PDF and uploads it to blob storage
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if !validDate(req.StartDate) || !validDate(req.EndDate) || req.EndDate < req.StartDate {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "start_date and end_date must be yyyy-MM-dd dates with start_date <= end_date",
		})
		return
	}

	blobName, err := h.service.GenerateReport(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("failed to generate report", zap.Error(err))
		respondServiceError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"blob_name": blobName})
}

// Download streams a previously generated report PDF
func (h *ReportHandler) Download(c *gin.Context) {
	blobName := c.Query("blob")
	if blobName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "blob query parameter is required",
		})
		return
	}

	data, err := h.service.GetReport(c.Request.Context(), blobName)
	if err != nil {
		h.logger.Error("failed to download report",
			zap.Error(err),
			zap.String("blob_name", blobName),
		)
		respondServiceError(c, err, "Failed to download report")
		return
	}

	c.Data(http.StatusOK, "application/pdf", data)
}

// Backup uploads a JSON snapshot of the medication data to blob storage
func (h *ReportHandler) Backup(c *gin.Context) {
	blobName, err := h.service.BackupSnapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to upload backup snapshot", zap.Error(err))
		respondServiceError(c, err, "Failed to upload backup snapshot")
		return
	}

	c.JSON(http.StatusOK, gin.H{"blob_name": blobName})
}
