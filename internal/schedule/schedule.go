// Package schedule derives upcoming dose times from a medication's
// frequency configuration. All functions are pure.
package schedule

import (
	"time"

	"github.com/medtrack/backend/pkg/model"
)

// fallbackInterval is used for custom frequencies and for schedules whose
// time fields cannot be parsed. It marks a "next check" rather than a
// precise dose time.
const fallbackInterval = time.Hour

// NextDose computes the next upcoming dose time for a medication relative
// to now.
//
// Daily medications resolve to today at the configured time, or tomorrow if
// that time has already passed. Multiple-times-daily medications resolve to
// the earliest configured time strictly after now, or the earliest time
// tomorrow once all of today's times have passed. Custom frequencies, and
// any schedule with missing or malformed time fields, fall back to one hour
// from now.
func NextDose(med *model.Medication, now time.Time) time.Time {
	switch med.Frequency {
	case model.FrequencyDaily:
		candidate, ok := clockToday(med.Time, now)
		if !ok {
			break
		}
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate

	case model.FrequencyMultiple:
		var earliest, next time.Time
		for _, entry := range med.Times {
			candidate, ok := clockToday(entry, now)
			if !ok {
				continue
			}
			if earliest.IsZero() || candidate.Before(earliest) {
				earliest = candidate
			}
			if candidate.After(now) && (next.IsZero() || candidate.Before(next)) {
				next = candidate
			}
		}
		if !next.IsZero() {
			return next
		}
		if !earliest.IsZero() {
			return earliest.AddDate(0, 0, 1)
		}
	}

	return now.Add(fallbackInterval)
}

// HasFixedTimes reports whether the medication carries a parseable fixed
// schedule, i.e. whether NextDose returns a real dose time rather than the
// one-hour fallback.
func HasFixedTimes(med *model.Medication) bool {
	switch med.Frequency {
	case model.FrequencyDaily:
		_, ok := parseClock(med.Time)
		return ok
	case model.FrequencyMultiple:
		for _, entry := range med.Times {
			if _, ok := parseClock(entry); ok {
				return true
			}
		}
	}
	return false
}

// clockToday resolves an HH:mm string to today's date in now's location.
func clockToday(clock string, now time.Time) (time.Time, bool) {
	parsed, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	candidate := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	return candidate, true
}

func parseClock(clock string) (time.Time, bool) {
	parsed, err := time.Parse(model.ClockLayout, clock)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
