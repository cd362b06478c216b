package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/medtrack/backend/internal/azure"
	"github.com/medtrack/backend/internal/pdf"
	"github.com/medtrack/backend/internal/repository"
	"github.com/medtrack/backend/internal/service"
	"github.com/medtrack/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupReportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	repo := repository.NewMedicationRepository(storage.NewMemoryStore(), logger)
	blob := azure.NewMockBlobStorageClient(logger)
	svc := service.NewReportService(repo, blob, pdf.NewPDFGenerator(logger), logger)
	handler := NewReportHandler(svc, logger)

	router := gin.New()
	reports := router.Group("/api/v1/reports")
	{
		reports.POST("/generate", handler.Generate)
		reports.GET("/download", handler.Download)
		reports.POST("/backup", handler.Backup)
	}
	return router
}

func TestGenerateAndDownloadReport(t *testing.T) {
	router := setupReportRouter()

	recorder := performRequest(router, http.MethodPost, "/api/v1/reports/generate", map[string]interface{}{
		"start_date": "2024-03-01",
		"end_date":   "2024-03-07",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		BlobName string `json:"blob_name"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.BlobName)

	recorder = performRequest(router, http.MethodGet, "/api/v1/reports/download?blob="+resp.BlobName, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", recorder.Body.String()[:4])
}

func TestGenerateReport_Validation(t *testing.T) {
	router := setupReportRouter()

	recorder := performRequest(router, http.MethodPost, "/api/v1/reports/generate", map[string]interface{}{
		"start_date": "2024-03-07",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = performRequest(router, http.MethodPost, "/api/v1/reports/generate", map[string]interface{}{
		"start_date": "2024-03-07",
		"end_date":   "2024-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDownloadReport_RequiresBlobParam(t *testing.T) {
	router := setupReportRouter()

	recorder := performRequest(router, http.MethodGet, "/api/v1/reports/download", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestBackupEndpoint(t *testing.T) {
	router := setupReportRouter()

	recorder := performRequest(router, http.MethodPost, "/api/v1/reports/backup", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		BlobName string `json:"blob_name"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.BlobName, "snapshots/backup_")
}
