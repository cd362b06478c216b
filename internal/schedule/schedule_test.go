package schedule

import (
	"testing"
	"time"

	"github.com/medtrack/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04", value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func TestNextDose_Daily(t *testing.T) {
	med := &model.Medication{
		Frequency: model.FrequencyDaily,
		Time:      "08:00",
		StartDate: "2024-01-01",
	}

	tests := []struct {
		name     string
		now      string
		expected string
	}{
		{
			name:     "time still ahead today",
			now:      "2024-01-01T07:00",
			expected: "2024-01-01T08:00",
		},
		{
			name:     "time already passed today",
			now:      "2024-01-01T09:00",
			expected: "2024-01-02T08:00",
		},
		{
			name:     "exactly at dose time rolls to tomorrow",
			now:      "2024-01-01T08:00",
			expected: "2024-01-02T08:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDose(med, at(t, tt.now))
			assert.Equal(t, at(t, tt.expected), got)
			assert.True(t, got.After(at(t, tt.now)), "next dose must be in the future")
		})
	}
}

func TestNextDose_Multiple(t *testing.T) {
	med := &model.Medication{
		Frequency: model.FrequencyMultiple,
		Times:     []string{"20:00", "08:00", "14:00"},
	}

	tests := []struct {
		name     string
		now      string
		expected string
	}{
		{
			name:     "before first time",
			now:      "2024-03-04T06:30",
			expected: "2024-03-04T08:00",
		},
		{
			name:     "between times picks the next one",
			now:      "2024-03-04T09:15",
			expected: "2024-03-04T14:00",
		},
		{
			name:     "all times passed rolls earliest to tomorrow",
			now:      "2024-03-04T21:00",
			expected: "2024-03-05T08:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDose(med, at(t, tt.now))
			assert.Equal(t, at(t, tt.expected), got)
		})
	}
}

func TestNextDose_CustomFallsBackOneHour(t *testing.T) {
	now := at(t, "2024-03-04T10:00")
	med := &model.Medication{
		Frequency:            model.FrequencyCustom,
		FrequencyDescription: "after meals, as needed",
	}

	assert.Equal(t, now.Add(time.Hour), NextDose(med, now))
}

func TestNextDose_MalformedTimesFallBack(t *testing.T) {
	now := at(t, "2024-03-04T10:00")

	tests := []struct {
		name string
		med  *model.Medication
	}{
		{
			name: "daily with missing time",
			med:  &model.Medication{Frequency: model.FrequencyDaily},
		},
		{
			name: "daily with unparseable time",
			med:  &model.Medication{Frequency: model.FrequencyDaily, Time: "8 o'clock"},
		},
		{
			name: "multiple with empty time set",
			med:  &model.Medication{Frequency: model.FrequencyMultiple, Times: []string{}},
		},
		{
			name: "multiple with only malformed entries",
			med:  &model.Medication{Frequency: model.FrequencyMultiple, Times: []string{"noon", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, now.Add(time.Hour), NextDose(tt.med, now))
		})
	}
}

func TestNextDose_MultipleSkipsMalformedEntries(t *testing.T) {
	now := at(t, "2024-03-04T09:00")
	med := &model.Medication{
		Frequency: model.FrequencyMultiple,
		Times:     []string{"bad", "14:00"},
	}

	assert.Equal(t, at(t, "2024-03-04T14:00"), NextDose(med, now))
}

func TestHasFixedTimes(t *testing.T) {
	assert.True(t, HasFixedTimes(&model.Medication{Frequency: model.FrequencyDaily, Time: "08:00"}))
	assert.True(t, HasFixedTimes(&model.Medication{Frequency: model.FrequencyMultiple, Times: []string{"08:00"}}))
	assert.False(t, HasFixedTimes(&model.Medication{Frequency: model.FrequencyDaily, Time: "late"}))
	assert.False(t, HasFixedTimes(&model.Medication{Frequency: model.FrequencyCustom}))
}
