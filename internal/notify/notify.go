// Package notify defines the reminder-scheduling collaborator. Reminder
// delivery is best-effort; failures here must never block medication
// creation.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// ReminderRequest describes a single local reminder to schedule.
type ReminderRequest struct {
	MedicationID string
	Name         string
	Dosage       string
	Time         string // HH:mm
}

// Scheduler schedules a local reminder for a medication dose.
type Scheduler interface {
	Schedule(ctx context.Context, req ReminderRequest) error
}

// Ensure LogScheduler implements Scheduler
var _ Scheduler = (*LogScheduler)(nil)

// LogScheduler records reminder intents through the structured logger.
// Actual alert delivery belongs to the device platform consuming this
// service; this implementation keeps the scheduling contract observable.
type LogScheduler struct {
	logger *zap.Logger
}

// NewLogScheduler creates a new LogScheduler.
func NewLogScheduler(logger *zap.Logger) *LogScheduler {
	return &LogScheduler{
		logger: logger,
	}
}

// Schedule records the reminder intent.
func (s *LogScheduler) Schedule(ctx context.Context, req ReminderRequest) error {
	s.logger.Info("reminder scheduled",
		zap.String("medication_id", req.MedicationID),
		zap.String("name", req.Name),
		zap.String("dosage", req.Dosage),
		zap.String("time", req.Time),
	)
	return nil
}
