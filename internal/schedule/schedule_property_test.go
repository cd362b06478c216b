package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/medtrack/backend/pkg/model"
)

func genClock() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	).Map(func(values []interface{}) string {
		return fmt.Sprintf("%02d:%02d", values[0].(int), values[1].(int))
	})
}

func genNow() gopter.Gen {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return gen.Int64Range(0, 365*24*3600).Map(func(offset int64) time.Time {
		return base.Add(time.Duration(offset) * time.Second)
	})
}

// TestNextDoseProperties verifies the scheduling invariants that hold for
// every valid schedule: the result is always strictly in the future, daily
// doses land on the configured clock time, and multiple-times schedules
// never pick a time later than rolling the earliest slot to tomorrow.
func TestNextDoseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("daily next dose is in the future at the configured clock time", prop.ForAll(
		func(clock string, now time.Time) bool {
			med := &model.Medication{Frequency: model.FrequencyDaily, Time: clock}
			next := NextDose(med, now)
			return next.After(now) && next.Format(model.ClockLayout) == clock
		},
		genClock(),
		genNow(),
	))

	properties.Property("daily next dose is never more than 24h away", prop.ForAll(
		func(clock string, now time.Time) bool {
			med := &model.Medication{Frequency: model.FrequencyDaily, Time: clock}
			return NextDose(med, now).Sub(now) <= 24*time.Hour
		},
		genClock(),
		genNow(),
	))

	properties.Property("multiple-times next dose is the earliest configured slot after now", prop.ForAll(
		func(clocks []string, now time.Time) bool {
			med := &model.Medication{Frequency: model.FrequencyMultiple, Times: clocks}
			next := NextDose(med, now)
			if !next.After(now) {
				return false
			}
			// No configured slot may fall strictly between now and the
			// chosen dose time.
			for _, clock := range clocks {
				candidate, ok := clockToday(clock, now)
				if !ok {
					continue
				}
				if candidate.After(now) && candidate.Before(next) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, genClock()),
		genNow(),
	))

	properties.Property("custom frequency always falls back to one hour", prop.ForAll(
		func(now time.Time) bool {
			med := &model.Medication{Frequency: model.FrequencyCustom}
			return NextDose(med, now).Equal(now.Add(time.Hour))
		},
		genNow(),
	))

	properties.TestingRun(t)
}
