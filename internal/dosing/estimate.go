package dosing

import (
	"time"

	"github.com/semaglide/backend/pkg/model"
)

// Estimate is a full point-in-time view of a user's medication state
// derived from their most recent dose and dosing cadence.
type Estimate struct {
	Level             float64           `json:"level"`
	PercentageOfPeak  float64           `json:"percentage_of_peak"`
	HoursSinceDose    float64           `json:"hours_since_dose"`
	DaysSinceDose     float64           `json:"days_since_dose"`
	HalfLifeHours     float64           `json:"half_life_hours"`
	NextDueDate       time.Time         `json:"next_due_date"`
	FrequencyFallback bool              `json:"frequency_fallback"`
	HoursUntilDue     float64           `json:"hours_until_due"`
	Countdown         string            `json:"countdown"`
	Status            model.LevelStatus `json:"status"`
}

// EstimateAt derives the medication state at a given moment from the
// most recent dose and the schedule cadence.
func EstimateAt(medication model.Medication, frequency model.Frequency, customInterval *int, lastDose, at time.Time, policy ThresholdPolicy) Estimate {
	hoursSince := at.Sub(lastDose).Hours()
	level := LevelAfter(medication, hoursSince)

	nextDue, exact := NextDueDate(lastDose, frequency, customInterval)
	hoursUntil := HoursUntilDue(nextDue, at)

	return Estimate{
		Level:             level,
		PercentageOfPeak:  level,
		HoursSinceDose:    hoursSince,
		DaysSinceDose:     hoursSince / 24,
		HalfLifeHours:     HalfLifeHours(medication),
		NextDueDate:       nextDue,
		FrequencyFallback: !exact,
		HoursUntilDue:     hoursUntil,
		Countdown:         FormatCountdown(hoursUntil),
		Status:            policy.Classify(level, hoursUntil),
	}
}
