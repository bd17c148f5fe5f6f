package dosing

import (
	"time"

	"github.com/semaglide/backend/pkg/model"
)

// fallbackIntervalDays is applied when the frequency gives no usable
// interval, so the user still gets a plausible next-due estimate.
const fallbackIntervalDays = 7

// IntervalDays returns the number of days between doses for a
// frequency. The second return value is false when the frequency has
// no determinable interval and the fallback was applied.
func IntervalDays(frequency model.Frequency, customInterval *int) (int, bool) {
	switch frequency {
	case model.FrequencyDaily:
		return 1, true
	case model.FrequencyWeekly:
		return 7, true
	case model.FrequencyBiweekly:
		return 14, true
	case model.FrequencyCustom:
		if customInterval != nil && *customInterval > 0 {
			return *customInterval, true
		}
		return fallbackIntervalDays, false
	default:
		return fallbackIntervalDays, false
	}
}

// NextDueDate computes when the next dose is due after a dose taken at
// lastDose. The second return value is false when the frequency was
// unrecognized or undetermined and the weekly fallback was used.
func NextDueDate(lastDose time.Time, frequency model.Frequency, customInterval *int) (time.Time, bool) {
	days, exact := IntervalDays(frequency, customInterval)
	return lastDose.AddDate(0, 0, days), exact
}

// HoursUntilDue returns the signed number of hours between now and the
// given due date. Negative values mean the dose is overdue.
func HoursUntilDue(nextDue, now time.Time) float64 {
	return nextDue.Sub(now).Hours()
}
