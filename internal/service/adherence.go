package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/medtrack/backend/pkg/model"
	"go.uber.org/zap"
)

// AdherenceService produces read-only adherence reports and history
// listings from the medication set and the history log. It never mutates
// state.
type AdherenceService struct {
	repo   MedicationRepositoryInterface
	logger *zap.Logger
}

// NewAdherenceService creates a new AdherenceService.
func NewAdherenceService(repo MedicationRepositoryInterface, logger *zap.Logger) *AdherenceService {
	return &AdherenceService{
		repo:   repo,
		logger: logger,
	}
}

// Report computes the adherence report for the inclusive date range.
func (s *AdherenceService) Report(ctx context.Context, startDate, endDate string) (*model.AdherenceReport, error) {
	history, err := s.repo.HistoryForRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	medications, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return nil, err
	}

	report, err := Analyze(history, medications, startDate, endDate)
	if err != nil {
		return nil, err
	}

	s.logger.Info("adherence report computed",
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
		zap.Int("expected", report.Expected),
		zap.Int("taken", report.Taken),
		zap.Int("rate", report.Rate),
	)

	return report, nil
}

// History returns the history records for the inclusive date range, most
// recent first (date descending, then time of day descending).
func (s *AdherenceService) History(ctx context.Context, startDate, endDate string) ([]model.HistoryRecord, error) {
	history, err := s.repo.HistoryForRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	SortHistory(history)
	return history, nil
}

// MedicationHistory returns every record for one medication, most recent
// first. Records survive deletion of the medication.
func (s *AdherenceService) MedicationHistory(ctx context.Context, medicationID string) ([]model.HistoryRecord, error) {
	history, err := s.repo.HistoryForMedication(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	SortHistory(history)
	return history, nil
}

// SortHistory orders records date descending, then time descending.
func SortHistory(records []model.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].Time > records[j].Time
	})
}

// Analyze computes the adherence report for [startDate, endDate] inclusive.
// Pure: it reads its inputs and touches nothing else.
//
// Expected doses are the sum over each day of the medications active that
// day. Taken counts every taken record independently of the day
// classification, where a missed record takes priority over taken for the
// day status.
func Analyze(history []model.HistoryRecord, medications []model.Medication, startDate, endDate string) (*model.AdherenceReport, error) {
	start, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(model.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	report := &model.AdherenceReport{
		StartDate: startDate,
		EndDate:   endDate,
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(model.DateLayout)

		for _, med := range medications {
			if med.ActiveOn(date) {
				report.Expected++
			}
		}

		aggregate := model.DayAggregate{Date: date}
		for _, record := range history {
			if record.Date != date {
				continue
			}
			switch record.Status {
			case model.StatusTaken:
				aggregate.Taken++
			case model.StatusMissed:
				aggregate.Missed++
			case model.StatusSkipped:
				aggregate.Skipped++
			}
		}
		aggregate.Status = classifyDay(aggregate)

		report.Taken += aggregate.Taken
		report.Days = append(report.Days, aggregate)
	}

	if report.Expected > 0 {
		report.Rate = int(math.Round(100 * float64(report.Taken) / float64(report.Expected)))
	}

	return report, nil
}

// classifyDay derives the single display status for a day. Missed takes
// priority over taken, taken over skipped.
func classifyDay(day model.DayAggregate) model.DayStatus {
	switch {
	case day.Missed > 0:
		return model.DayStatusBad
	case day.Taken > 0:
		return model.DayStatusGood
	case day.Skipped > 0:
		return model.DayStatusWarning
	default:
		return model.DayStatusNeutral
	}
}
