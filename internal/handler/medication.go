package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/service"
	"github.com/medtrack/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationHandler implements medication API endpoints
type MedicationHandler struct {
	service *service.MedicationService
	logger  *zap.Logger
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(service *service.MedicationService, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{
		service: service,
		logger:  logger,
	}
}

// CreateMedicationRequest is the JSON body for adding a medication
type CreateMedicationRequest struct {
	Name                 string          `json:"name" binding:"required"`
	Dosage               string          `json:"dosage" binding:"required"`
	Frequency            model.Frequency `json:"frequency" binding:"required,oneof=daily multiple custom"`
	Time                 string          `json:"time"`
	Times                []string        `json:"times"`
	FrequencyDescription string          `json:"frequencyDescription"`
	Color                string          `json:"color"`
	Notes                string          `json:"notes"`
	StartDate            string          `json:"startDate" binding:"required"`
	EndDate              string          `json:"endDate"`
	Reminder             bool            `json:"reminder"`
}

// Create adds a new medication
func (h *MedicationHandler) Create(c *gin.Context) {
	var req CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if !validDate(req.StartDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "startDate must be a yyyy-MM-dd date",
		})
		return
	}
	if req.EndDate != "" && (!validDate(req.EndDate) || req.EndDate < req.StartDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "endDate must be a yyyy-MM-dd date on or after startDate",
		})
		return
	}

	medication := &model.Medication{
		Name:                 req.Name,
		Dosage:               req.Dosage,
		Frequency:            req.Frequency,
		Time:                 req.Time,
		Times:                req.Times,
		FrequencyDescription: req.FrequencyDescription,
		Color:                req.Color,
		Notes:                req.Notes,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Reminder:             req.Reminder,
	}

	id, err := h.service.AddMedication(c.Request.Context(), medication)
	if err != nil {
		h.logger.Error("failed to add medication",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		respondServiceError(c, err, "Failed to add medication")
		return
	}

	h.logger.Info("medication added",
		zap.String("medication_id", id),
	)

	c.JSON(http.StatusCreated, medication)
}

// List returns the full medication collection
func (h *MedicationHandler) List(c *gin.Context) {
	medications, err := h.service.ListMedications(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list medications", zap.Error(err))
		respondServiceError(c, err, "Failed to list medications")
		return
	}

	c.JSON(http.StatusOK, medications)
}

// ListActive returns medications active on the given date (default today)
func (h *MedicationHandler) ListActive(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(model.DateLayout)
	}
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "date must be a yyyy-MM-dd date",
		})
		return
	}

	medications, err := h.service.ListActiveForDate(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("failed to list active medications",
			zap.Error(err),
			zap.String("date", date),
		)
		respondServiceError(c, err, "Failed to list active medications")
		return
	}

	c.JSON(http.StatusOK, medications)
}

// Get returns one medication by id
func (h *MedicationHandler) Get(c *gin.Context) {
	medicationID := c.Param("id")

	medication, err := h.service.GetMedication(c.Request.Context(), medicationID)
	if err != nil {
		respondServiceError(c, err, "Failed to get medication")
		return
	}

	c.JSON(http.StatusOK, medication)
}

// Update merges partial fields into a medication
func (h *MedicationHandler) Update(c *gin.Context) {
	medicationID := c.Param("id")

	var req service.MedicationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if req.StartDate != nil && !validDate(*req.StartDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "startDate must be a yyyy-MM-dd date",
		})
		return
	}
	if req.EndDate != nil && *req.EndDate != "" && !validDate(*req.EndDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "endDate must be a yyyy-MM-dd date",
		})
		return
	}

	if err := h.service.UpdateMedication(c.Request.Context(), medicationID, &req); err != nil {
		h.logger.Error("failed to update medication",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		respondServiceError(c, err, "Failed to update medication")
		return
	}

	h.logger.Info("medication updated",
		zap.String("medication_id", medicationID),
	)

	c.Status(http.StatusNoContent)
}

// Delete removes a medication; its history records are preserved
func (h *MedicationHandler) Delete(c *gin.Context) {
	medicationID := c.Param("id")

	if err := h.service.DeleteMedication(c.Request.Context(), medicationID); err != nil {
		h.logger.Error("failed to delete medication",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		respondServiceError(c, err, "Failed to delete medication")
		return
	}

	h.logger.Info("medication deleted",
		zap.String("medication_id", medicationID),
	)

	c.Status(http.StatusNoContent)
}

// MarkTaken records a taken dose for today
func (h *MedicationHandler) MarkTaken(c *gin.Context) {
	h.markStatus(c, h.service.MarkTaken, "Failed to mark medication taken")
}

// MarkSkipped records a skipped dose for today
func (h *MedicationHandler) MarkSkipped(c *gin.Context) {
	h.markStatus(c, h.service.MarkSkipped, "Failed to mark medication skipped")
}

func (h *MedicationHandler) markStatus(c *gin.Context, mark func(ctx context.Context, id string) error, message string) {
	medicationID := c.Param("id")

	if err := mark(c.Request.Context(), medicationID); err != nil {
		h.logger.Error(message,
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		respondServiceError(c, err, message)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reset clears the daily taken/skipped flags for a new calendar day,
// recording missed doses from yesterday first
func (h *MedicationHandler) Reset(c *gin.Context) {
	if err := h.service.ResetDailyStatuses(c.Request.Context(), time.Now()); err != nil {
		h.logger.Error("failed to reset daily statuses", zap.Error(err))
		respondServiceError(c, err, "Failed to reset daily statuses")
		return
	}

	c.Status(http.StatusNoContent)
}
