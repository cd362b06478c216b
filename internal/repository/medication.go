// Package repository adapts the key-value store to the typed medication
// and history collections. Every mutation is a whole-collection
// read-modify-write against a single key.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medtrack/backend/internal/storage"
	"github.com/medtrack/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationRepository manages the persisted medication collection and the
// append-only history log.
type MedicationRepository struct {
	store  storage.KeyValue
	logger *zap.Logger
}

// NewMedicationRepository creates a new MedicationRepository.
func NewMedicationRepository(store storage.KeyValue, logger *zap.Logger) *MedicationRepository {
	return &MedicationRepository{
		store:  store,
		logger: logger,
	}
}

// LoadMedications reads the full medication collection. A missing key
// yields an empty collection.
func (r *MedicationRepository) LoadMedications(ctx context.Context) ([]model.Medication, error) {
	data, err := r.store.Get(ctx, storage.KeyMedications)
	if err != nil {
		r.logger.Error("failed to load medications", zap.Error(err))
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}
	if data == nil {
		return []model.Medication{}, nil
	}

	var medications []model.Medication
	if err := json.Unmarshal(data, &medications); err != nil {
		r.logger.Error("failed to decode medications", zap.Error(err))
		return nil, fmt.Errorf("failed to decode medications: %w", err)
	}

	return medications, nil
}

// SaveMedications writes the full medication collection back.
func (r *MedicationRepository) SaveMedications(ctx context.Context, medications []model.Medication) error {
	data, err := json.Marshal(medications)
	if err != nil {
		return fmt.Errorf("failed to encode medications: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyMedications, data); err != nil {
		r.logger.Error("failed to save medications",
			zap.Error(err),
			zap.Int("count", len(medications)),
		)
		return fmt.Errorf("failed to save medications: %w", err)
	}

	return nil
}

// LoadHistory reads the full history log, oldest record first.
func (r *MedicationRepository) LoadHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	data, err := r.store.Get(ctx, storage.KeyHistory)
	if err != nil {
		r.logger.Error("failed to load history", zap.Error(err))
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if data == nil {
		return []model.HistoryRecord{}, nil
	}

	var history []model.HistoryRecord
	if err := json.Unmarshal(data, &history); err != nil {
		r.logger.Error("failed to decode history", zap.Error(err))
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	return history, nil
}

// AppendHistory appends records to the history log. The log is append-only;
// existing records are never mutated or removed.
func (r *MedicationRepository) AppendHistory(ctx context.Context, records ...model.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	history, err := r.LoadHistory(ctx)
	if err != nil {
		return err
	}

	history = append(history, records...)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyHistory, data); err != nil {
		r.logger.Error("failed to append history",
			zap.Error(err),
			zap.Int("appended", len(records)),
		)
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// HistoryForMedication returns every history record for a medication id.
// Records survive deletion of the medication itself.
func (r *MedicationRepository) HistoryForMedication(ctx context.Context, medicationID string) ([]model.HistoryRecord, error) {
	history, err := r.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.HistoryRecord, 0)
	for _, record := range history {
		if record.MedicationID == medicationID {
			matched = append(matched, record)
		}
	}

	return matched, nil
}

// HistoryForRange returns every history record dated within [start, end]
// inclusive.
func (r *MedicationRepository) HistoryForRange(ctx context.Context, startDate, endDate string) ([]model.HistoryRecord, error) {
	history, err := r.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.HistoryRecord, 0)
	for _, record := range history {
		if record.Date >= startDate && record.Date <= endDate {
			matched = append(matched, record)
		}
	}

	return matched, nil
}

// LastResetDate returns the calendar date of the last daily-status reset,
// or an empty string when no reset has been recorded.
func (r *MedicationRepository) LastResetDate(ctx context.Context) (string, error) {
	data, err := r.store.Get(ctx, storage.KeyLastReset)
	if err != nil {
		r.logger.Error("failed to load last reset date", zap.Error(err))
		return "", fmt.Errorf("failed to load last reset date: %w", err)
	}

	return string(data), nil
}

// SetLastResetDate records the calendar date of the last daily-status reset.
func (r *MedicationRepository) SetLastResetDate(ctx context.Context, date string) error {
	if err := r.store.Set(ctx, storage.KeyLastReset, []byte(date)); err != nil {
		r.logger.Error("failed to save last reset date",
			zap.Error(err),
			zap.String("date", date),
		)
		return fmt.Errorf("failed to save last reset date: %w", err)
	}

	return nil
}
