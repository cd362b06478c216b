package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/service"
	"github.com/medtrack/backend/internal/storage"
	"github.com/medtrack/backend/pkg/model"
)

// ErrorResponse is the JSON error body returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// respondServiceError maps service-layer errors to HTTP responses.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Medication not found",
			Details: stringPtr(err.Error()),
		})
	case errors.Is(err, storage.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "STORAGE_UNAVAILABLE",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	}
}

// validDate reports whether s is a yyyy-MM-dd calendar date.
func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// dateRangeParams reads and validates start/end query parameters.
func dateRangeParams(c *gin.Context) (string, string, bool) {
	startDate := c.Query("start")
	endDate := c.Query("end")

	if !validDate(startDate) || !validDate(endDate) || endDate < startDate {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "start and end must be yyyy-MM-dd dates with start <= end",
		})
		return "", "", false
	}

	return startDate, endDate, true
}
