package model

// DateLayout is the calendar-date format used in persisted records.
const DateLayout = "2006-01-02"

// ClockLayout is the 24-hour wall-clock format used for dose times.
const ClockLayout = "15:04"

// Frequency represents a medication's recurrence pattern
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyMultiple Frequency = "multiple"
	FrequencyCustom   Frequency = "custom"
)

// HistoryStatus represents the recorded outcome of a scheduled dose
type HistoryStatus string

const (
	StatusTaken   HistoryStatus = "taken"
	StatusSkipped HistoryStatus = "skipped"
	StatusMissed  HistoryStatus = "missed"
)

// Medication represents a medication record.
// Dates are calendar-date strings (yyyy-MM-dd), dose times are 24-hour HH:mm
// strings and NextDoseTime is an RFC3339 timestamp.
type Medication struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Dosage               string    `json:"dosage"`
	Frequency            Frequency `json:"frequency"`
	Time                 string    `json:"time,omitempty"`
	Times                []string  `json:"times,omitempty"`
	FrequencyDescription string    `json:"frequencyDescription,omitempty"`
	Color                string    `json:"color,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	StartDate            string    `json:"startDate"`
	EndDate              string    `json:"endDate,omitempty"`
	TakenToday           bool      `json:"takenToday,omitempty"`
	SkippedToday         bool      `json:"skippedToday,omitempty"`
	NextDoseTime         string    `json:"nextDoseTime,omitempty"`
	Reminder             bool      `json:"reminder"`
}

// ActiveOn reports whether the medication's [StartDate, EndDate] interval
// contains the given calendar date. An empty EndDate means unbounded.
// Lexicographic comparison is correct for yyyy-MM-dd strings.
func (m *Medication) ActiveOn(date string) bool {
	if m.StartDate > date {
		return false
	}
	return m.EndDate == "" || m.EndDate >= date
}

// HistoryRecord is an immutable fact: this medication had this status on
// this date and time. Name and dosage are captured at recording time so
// history is unaffected by later edits or deletion of the medication.
type HistoryRecord struct {
	ID             string        `json:"id"`
	MedicationID   string        `json:"medicationId"`
	MedicationName string        `json:"medicationName"`
	Dosage         string        `json:"dosage"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Status         HistoryStatus `json:"status"`
}

// DayStatus classifies a calendar day for adherence display
type DayStatus string

const (
	DayStatusGood    DayStatus = "good"
	DayStatusBad     DayStatus = "bad"
	DayStatusWarning DayStatus = "warning"
	DayStatusNeutral DayStatus = "neutral"
)

// DayAggregate holds per-day adherence counts and the derived day status
type DayAggregate struct {
	Date    string    `json:"date"`
	Taken   int       `json:"taken"`
	Missed  int       `json:"missed"`
	Skipped int       `json:"skipped"`
	Status  DayStatus `json:"status"`
}

// AdherenceReport is the derived adherence summary for an inclusive date
// range. Rate is a rounded percentage, 0 when no doses were expected.
type AdherenceReport struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Expected  int            `json:"expected"`
	Taken     int            `json:"taken"`
	Rate      int            `json:"rate"`
	Days      []DayAggregate `json:"days"`
}
