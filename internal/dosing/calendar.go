package dosing

import (
	"math"
	"time"

	"github.com/semaglide/backend/pkg/model"
)

// CalendarEntry is one expected dose date on the monthly calendar.
type CalendarEntry struct {
	Date        time.Time            `json:"date"`
	Status      model.CalendarStatus `json:"status"`
	DoseEventID *string              `json:"dose_event_id,omitempty"`
}

// BuildCalendar projects a schedule's expected dose dates over
// [monthStart, monthEnd] and marks each one taken, overdue or
// scheduled. A dose matches an expected date when it falls within one
// day of it; when several qualify the closest in time wins, and each
// dose is consumed by at most one entry.
func BuildCalendar(doses []model.DoseEvent, schedule model.ScheduleConfig, monthStart, monthEnd, now time.Time) []CalendarEntry {
	start := schedule.StartDate
	if start.Before(monthStart) {
		// advance the anchor into the month along the cadence so
		// expected dates stay phase-aligned with the start date
		step, exact := IntervalDays(schedule.Frequency, schedule.CustomInterval)
		if exact || schedule.Frequency == model.FrequencyCustom {
			for start.Before(monthStart) {
				start = start.AddDate(0, 0, step)
			}
		} else {
			start = monthStart
		}
	}

	expected := ExpectedDoseDates(start, monthEnd, schedule.Frequency, schedule.CustomInterval)

	consumed := make(map[string]bool, len(doses))
	entries := make([]CalendarEntry, 0, len(expected))
	for _, exp := range expected {
		entry := CalendarEntry{Date: exp, Status: model.CalendarScheduled}

		bestIdx := -1
		bestGap := math.Inf(1)
		for i, d := range doses {
			if consumed[d.ID] {
				continue
			}
			gap := math.Abs(d.Date.Sub(exp).Hours())
			if gap <= 24 && gap < bestGap {
				bestIdx, bestGap = i, gap
			}
		}

		if bestIdx >= 0 {
			id := doses[bestIdx].ID
			consumed[id] = true
			entry.Status = model.CalendarTaken
			entry.DoseEventID = &id
		} else if exp.Before(now) {
			entry.Status = model.CalendarOverdue
		}
		entries = append(entries, entry)
	}
	return entries
}
