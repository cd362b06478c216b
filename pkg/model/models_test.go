package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicationActiveOn(t *testing.T) {
	tests := []struct {
		name   string
		med    Medication
		date   string
		active bool
	}{
		{
			name:   "before start date",
			med:    Medication{StartDate: "2024-03-01"},
			date:   "2024-02-29",
			active: false,
		},
		{
			name:   "on start date",
			med:    Medication{StartDate: "2024-03-01"},
			date:   "2024-03-01",
			active: true,
		},
		{
			name:   "open ended stays active",
			med:    Medication{StartDate: "2024-03-01"},
			date:   "2030-12-31",
			active: true,
		},
		{
			name:   "on end date",
			med:    Medication{StartDate: "2024-03-01", EndDate: "2024-03-10"},
			date:   "2024-03-10",
			active: true,
		},
		{
			name:   "after end date",
			med:    Medication{StartDate: "2024-03-01", EndDate: "2024-03-10"},
			date:   "2024-03-11",
			active: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.med.ActiveOn(tt.date))
		})
	}
}

func TestMedicationJSONShape(t *testing.T) {
	med := Medication{
		ID:           "11111111-2222-3333-4444-555555555555",
		Name:         "Lisinopril",
		Dosage:       "10mg",
		Frequency:    FrequencyDaily,
		Time:         "08:00",
		StartDate:    "2024-03-01",
		TakenToday:   true,
		NextDoseTime: "2024-03-02T08:00:00Z",
		Reminder:     true,
	}

	data, err := json.Marshal(med)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "Lisinopril", fields["name"])
	assert.Equal(t, "daily", fields["frequency"])
	assert.Equal(t, "08:00", fields["time"])
	assert.Equal(t, "2024-03-01", fields["startDate"])
	assert.Equal(t, true, fields["takenToday"])
	assert.Equal(t, "2024-03-02T08:00:00Z", fields["nextDoseTime"])

	// Unset optional fields stay off the wire.
	assert.NotContains(t, fields, "times")
	assert.NotContains(t, fields, "endDate")
	assert.NotContains(t, fields, "skippedToday")
	assert.NotContains(t, fields, "notes")
}

func TestHistoryRecordRoundTrip(t *testing.T) {
	record := HistoryRecord{
		ID:             "rec-1",
		MedicationID:   "med-1",
		MedicationName: "Metformin",
		Dosage:         "500mg",
		Date:           "2024-03-04",
		Time:           "14:00",
		Status:         StatusSkipped,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded HistoryRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, record, decoded)
}
