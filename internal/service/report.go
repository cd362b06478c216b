package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medtrack/backend/internal/azure"
	"github.com/medtrack/backend/internal/pdf"
	"go.uber.org/zap"
)

// ReportService renders adherence reports to PDF and uploads them, and
// ships JSON backup snapshots of the medication data, to blob storage.
type ReportService struct {
	repo       MedicationRepositoryInterface
	blobClient azure.BlobStorage
	pdfGen     *pdf.PDFGenerator
	logger     *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	repo MedicationRepositoryInterface,
	blobClient azure.BlobStorage,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		repo:       repo,
		blobClient: blobClient,
		pdfGen:     pdfGen,
		logger:     logger,
	}
}

// GenerateReport builds the adherence report for the date range, renders it
// to PDF and uploads it. It returns the stored blob name.
func (s *ReportService) GenerateReport(ctx context.Context, startDate, endDate string) (string, error) {
	s.logger.Info("generating adherence report",
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
	)

	history, err := s.repo.HistoryForRange(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to get history for report", zap.Error(err))
		return "", fmt.Errorf("failed to get history: %w", err)
	}

	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		s.logger.Error("failed to get medications for report", zap.Error(err))
		return "", fmt.Errorf("failed to get medications: %w", err)
	}

	report, err := Analyze(history, medications, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("failed to analyze adherence: %w", err)
	}

	SortHistory(history)

	pdfBytes, err := s.pdfGen.Generate(&pdf.ReportData{
		Adherence:   report,
		Medications: medications,
		History:     history,
	})
	if err != nil {
		s.logger.Error("failed to render report PDF", zap.Error(err))
		return "", fmt.Errorf("failed to render report PDF: %w", err)
	}

	filename := fmt.Sprintf("adherence_%s.pdf", uuid.New().String())
	blobName, err := s.blobClient.UploadReport(ctx, filename, pdfBytes)
	if err != nil {
		s.logger.Error("failed to upload report", zap.Error(err))
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	s.logger.Info("adherence report generated",
		zap.String("blob_name", blobName),
		zap.Int("rate", report.Rate),
	)

	return blobName, nil
}

// GetReport downloads a previously generated report PDF.
func (s *ReportService) GetReport(ctx context.Context, blobName string) ([]byte, error) {
	data, err := s.blobClient.DownloadReport(ctx, blobName)
	if err != nil {
		s.logger.Error("failed to download report",
			zap.Error(err),
			zap.String("blob_name", blobName),
		)
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	return data, nil
}

// snapshot is the JSON shape of an off-device backup.
type snapshot struct {
	CreatedAt   string          `json:"created_at"`
	Medications json.RawMessage `json:"medications"`
	History     json.RawMessage `json:"history"`
}

// BackupSnapshot uploads the full medication collection and history log as
// a timestamped JSON snapshot. It returns the stored blob name.
func (s *ReportService) BackupSnapshot(ctx context.Context) (string, error) {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get medications: %w", err)
	}

	history, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get history: %w", err)
	}

	medBytes, err := json.Marshal(medications)
	if err != nil {
		return "", fmt.Errorf("failed to encode medications: %w", err)
	}
	histBytes, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(snapshot{
		CreatedAt:   now.Format(time.RFC3339),
		Medications: medBytes,
		History:     histBytes,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	filename := fmt.Sprintf("backup_%s.json", now.Format("20060102T150405Z"))
	blobName, err := s.blobClient.UploadSnapshot(ctx, filename, payload)
	if err != nil {
		s.logger.Error("failed to upload snapshot", zap.Error(err))
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Info("backup snapshot uploaded",
		zap.String("blob_name", blobName),
		zap.Int("medications", len(medications)),
		zap.Int("history_records", len(history)),
	)

	return blobName, nil
}
