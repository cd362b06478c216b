package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medtrack/backend/internal/notify"
	"github.com/medtrack/backend/internal/schedule"
	"github.com/medtrack/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrNotFound indicates the referenced medication id is absent from the
// current collection.
var ErrNotFound = errors.New("medication not found")

// defaultMissedTime stamps missed records for medications without a single
// configured dose time.
const defaultMissedTime = "12:00"

// MedicationRepositoryInterface defines the data access needed by the
// medication and adherence services.
type MedicationRepositoryInterface interface {
	LoadMedications(ctx context.Context) ([]model.Medication, error)
	SaveMedications(ctx context.Context, medications []model.Medication) error
	LoadHistory(ctx context.Context) ([]model.HistoryRecord, error)
	AppendHistory(ctx context.Context, records ...model.HistoryRecord) error
	HistoryForMedication(ctx context.Context, medicationID string) ([]model.HistoryRecord, error)
	HistoryForRange(ctx context.Context, startDate, endDate string) ([]model.HistoryRecord, error)
	LastResetDate(ctx context.Context) (string, error)
	SetLastResetDate(ctx context.Context, date string) error
}

// MedicationUpdate carries a partial-field update. Nil fields are left
// unchanged on the stored record.
type MedicationUpdate struct {
	Name                 *string          `json:"name,omitempty"`
	Dosage               *string          `json:"dosage,omitempty"`
	Frequency            *model.Frequency `json:"frequency,omitempty"`
	Time                 *string          `json:"time,omitempty"`
	Times                *[]string        `json:"times,omitempty"`
	FrequencyDescription *string          `json:"frequencyDescription,omitempty"`
	Color                *string          `json:"color,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
	StartDate            *string          `json:"startDate,omitempty"`
	EndDate              *string          `json:"endDate,omitempty"`
	Reminder             *bool            `json:"reminder,omitempty"`
}

// MedicationService owns the medication collection: CRUD, daily status
// transitions and the history log kept in sync with them.
type MedicationService struct {
	repo      MedicationRepositoryInterface
	reminders notify.Scheduler
	logger    *zap.Logger
}

// NewMedicationService creates a new MedicationService. reminders may be
// nil when no reminder collaborator is configured.
func NewMedicationService(repo MedicationRepositoryInterface, reminders notify.Scheduler, logger *zap.Logger) *MedicationService {
	return &MedicationService{
		repo:      repo,
		reminders: reminders,
		logger:    logger,
	}
}

// AddMedication assigns a new id, computes the initial next dose time,
// persists the medication and schedules reminders when enabled. Reminder
// failures are logged and never surfaced; the creation stands regardless.
func (s *MedicationService) AddMedication(ctx context.Context, med *model.Medication) (string, error) {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return "", err
	}

	med.ID = uuid.New().String()
	med.NextDoseTime = schedule.NextDose(med, time.Now()).Format(time.RFC3339)

	medications = append(medications, *med)
	if err := s.repo.SaveMedications(ctx, medications); err != nil {
		return "", err
	}

	s.logger.Info("medication added",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
		zap.String("frequency", string(med.Frequency)),
	)

	if med.Reminder {
		s.scheduleReminders(ctx, med)
	}

	return med.ID, nil
}

// scheduleReminders schedules one reminder per configured dose time.
func (s *MedicationService) scheduleReminders(ctx context.Context, med *model.Medication) {
	if s.reminders == nil {
		return
	}

	var times []string
	switch med.Frequency {
	case model.FrequencyDaily:
		if med.Time != "" {
			times = []string{med.Time}
		}
	case model.FrequencyMultiple:
		times = med.Times
	}

	for _, t := range times {
		err := s.reminders.Schedule(ctx, notify.ReminderRequest{
			MedicationID: med.ID,
			Name:         med.Name,
			Dosage:       med.Dosage,
			Time:         t,
		})
		if err != nil {
			// Best effort: reminder delivery must not block creation.
			s.logger.Warn("failed to schedule reminder",
				zap.Error(err),
				zap.String("medication_id", med.ID),
				zap.String("time", t),
			)
		}
	}
}

// GetMedication returns the medication with the given id.
func (s *MedicationService) GetMedication(ctx context.Context, medicationID string) (*model.Medication, error) {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return nil, err
	}

	for i := range medications {
		if medications[i].ID == medicationID {
			return &medications[i], nil
		}
	}

	return nil, ErrNotFound
}

// ListMedications returns the full medication collection.
func (s *MedicationService) ListMedications(ctx context.Context) ([]model.Medication, error) {
	return s.repo.LoadMedications(ctx)
}

// ListActiveForDate returns medications whose schedule interval contains
// the given calendar date.
func (s *MedicationService) ListActiveForDate(ctx context.Context, date string) ([]model.Medication, error) {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]model.Medication, 0)
	for _, med := range medications {
		if med.ActiveOn(date) {
			active = append(active, med)
		}
	}

	return active, nil
}

// UpdateMedication merges the partial fields into the stored record and
// recomputes its next dose time.
func (s *MedicationService) UpdateMedication(ctx context.Context, medicationID string, update *MedicationUpdate) error {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range medications {
		if medications[i].ID == medicationID {
			index = i
			break
		}
	}
	if index == -1 {
		return ErrNotFound
	}

	med := &medications[index]
	applyUpdate(med, update)
	med.NextDoseTime = schedule.NextDose(med, time.Now()).Format(time.RFC3339)

	if err := s.repo.SaveMedications(ctx, medications); err != nil {
		return err
	}

	s.logger.Info("medication updated",
		zap.String("medication_id", medicationID),
		zap.String("name", med.Name),
	)

	return nil
}

func applyUpdate(med *model.Medication, update *MedicationUpdate) {
	if update.Name != nil {
		med.Name = *update.Name
	}
	if update.Dosage != nil {
		med.Dosage = *update.Dosage
	}
	if update.Frequency != nil {
		med.Frequency = *update.Frequency
	}
	if update.Time != nil {
		med.Time = *update.Time
	}
	if update.Times != nil {
		med.Times = *update.Times
	}
	if update.FrequencyDescription != nil {
		med.FrequencyDescription = *update.FrequencyDescription
	}
	if update.Color != nil {
		med.Color = *update.Color
	}
	if update.Notes != nil {
		med.Notes = *update.Notes
	}
	if update.StartDate != nil {
		med.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		med.EndDate = *update.EndDate
	}
	if update.Reminder != nil {
		med.Reminder = *update.Reminder
	}
}

// DeleteMedication removes the medication from the active set. Its history
// records are left untouched.
func (s *MedicationService) DeleteMedication(ctx context.Context, medicationID string) error {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return err
	}

	remaining := medications[:0]
	found := false
	for _, med := range medications {
		if med.ID == medicationID {
			found = true
			continue
		}
		remaining = append(remaining, med)
	}
	if !found {
		return ErrNotFound
	}

	if err := s.repo.SaveMedications(ctx, remaining); err != nil {
		return err
	}

	s.logger.Info("medication deleted",
		zap.String("medication_id", medicationID),
	)

	return nil
}

// MarkTaken sets takenToday, clears skippedToday and appends a taken
// history record stamped with the current date and time. Repeated calls
// append repeated records; history is never deduplicated.
func (s *MedicationService) MarkTaken(ctx context.Context, medicationID string) error {
	return s.markStatus(ctx, medicationID, model.StatusTaken)
}

// MarkSkipped sets skippedToday, clears takenToday and appends a skipped
// history record.
func (s *MedicationService) MarkSkipped(ctx context.Context, medicationID string) error {
	return s.markStatus(ctx, medicationID, model.StatusSkipped)
}

func (s *MedicationService) markStatus(ctx context.Context, medicationID string, status model.HistoryStatus) error {
	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range medications {
		if medications[i].ID == medicationID {
			index = i
			break
		}
	}
	if index == -1 {
		return ErrNotFound
	}

	med := &medications[index]
	med.TakenToday = status == model.StatusTaken
	med.SkippedToday = status == model.StatusSkipped

	if err := s.repo.SaveMedications(ctx, medications); err != nil {
		return err
	}

	now := time.Now()
	record := model.HistoryRecord{
		ID:             uuid.New().String(),
		MedicationID:   med.ID,
		MedicationName: med.Name,
		Dosage:         med.Dosage,
		Date:           now.Format(model.DateLayout),
		Time:           now.Format(model.ClockLayout),
		Status:         status,
	}

	if err := s.repo.AppendHistory(ctx, record); err != nil {
		return err
	}

	s.logger.Info("medication status recorded",
		zap.String("medication_id", med.ID),
		zap.String("status", string(status)),
	)

	return nil
}

// ResetDailyStatuses clears both daily flags on every medication for a new
// calendar day. Any medication that was active yesterday and neither taken
// nor skipped gets one missed history record dated yesterday first. The
// operation is idempotent per calendar day: the last-reset date is
// persisted and repeat invocations on the same day are no-ops.
func (s *MedicationService) ResetDailyStatuses(ctx context.Context, now time.Time) error {
	today := now.Format(model.DateLayout)

	lastReset, err := s.repo.LastResetDate(ctx)
	if err != nil {
		return err
	}
	if lastReset == today {
		s.logger.Info("daily statuses already reset", zap.String("date", today))
		return nil
	}

	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return err
	}

	yesterday := now.AddDate(0, 0, -1).Format(model.DateLayout)

	var missed []model.HistoryRecord
	for i := range medications {
		med := &medications[i]

		if med.ActiveOn(yesterday) && !med.TakenToday && !med.SkippedToday {
			recordTime := med.Time
			if recordTime == "" {
				recordTime = defaultMissedTime
			}
			missed = append(missed, model.HistoryRecord{
				ID:             uuid.New().String(),
				MedicationID:   med.ID,
				MedicationName: med.Name,
				Dosage:         med.Dosage,
				Date:           yesterday,
				Time:           recordTime,
				Status:         model.StatusMissed,
			})
		}

		med.TakenToday = false
		med.SkippedToday = false
		med.NextDoseTime = schedule.NextDose(med, now).Format(time.RFC3339)
	}

	if err := s.repo.AppendHistory(ctx, missed...); err != nil {
		return err
	}

	if err := s.repo.SaveMedications(ctx, medications); err != nil {
		return err
	}

	if err := s.repo.SetLastResetDate(ctx, today); err != nil {
		return err
	}

	s.logger.Info("daily statuses reset",
		zap.String("date", today),
		zap.Int("missed_recorded", len(missed)),
	)

	return nil
}
