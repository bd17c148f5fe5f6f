package dosing

import (
	"math"
	"sort"
	"time"

	"github.com/semaglide/backend/pkg/model"
)

// streakToleranceDays is the slack allowed around an expected dose
// date before a dose breaks a streak.
const streakToleranceDays = 1

// StreakMode selects how streaks are anchored.
type StreakMode string

const (
	// StreakRelativeToNow counts only doses taken within a day of the
	// present moment.
	StreakRelativeToNow StreakMode = "relative-to-now"
	// StreakRelativeToSchedule anchors streaks at the schedule's
	// expected dose dates instead of the current time.
	StreakRelativeToSchedule StreakMode = "relative-to-schedule"
)

// StreakModeByName resolves a configured streak mode name, defaulting
// to StreakRelativeToNow for unrecognized names.
func StreakModeByName(name string) StreakMode {
	if name == string(StreakRelativeToSchedule) {
		return StreakRelativeToSchedule
	}
	return StreakRelativeToNow
}

// WeekAdherence is one week of the adherence breakdown.
type WeekAdherence struct {
	WeekStart  time.Time `json:"week_start"`
	Expected   int       `json:"expected"`
	Taken      int       `json:"taken"`
	Percentage int       `json:"percentage"`
}

// ExpectedDoseDates expands a schedule's expected dose dates over
// [start, end]. An undetermined or unrecognized frequency yields no
// dates, since no step can be derived.
func ExpectedDoseDates(start, end time.Time, frequency model.Frequency, customInterval *int) []time.Time {
	if start.After(end) {
		return nil
	}

	step, exact := IntervalDays(frequency, customInterval)
	if !exact {
		return nil
	}

	var expected []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, step) {
		expected = append(expected, current)
	}
	return expected
}

// ComputeAdherence derives adherence statistics for the doses taken in
// [start, end] against the schedule's expected cadence. now anchors
// streak computation in StreakRelativeToNow mode.
func ComputeAdherence(doses []model.DoseEvent, schedule model.ScheduleConfig, start, end, now time.Time, mode StreakMode) model.AdherenceSummary {
	expected := ExpectedDoseDates(start, end, schedule.Frequency, schedule.CustomInterval)

	taken := 0
	for _, d := range doses {
		if !d.Date.Before(start) && !d.Date.After(end) {
			taken++
		}
	}

	totalExpected := len(expected)
	missed := totalExpected - taken
	if missed < 0 {
		missed = 0
	}

	percentage := 100
	if totalExpected > 0 {
		percentage = int(math.Round(float64(taken) / float64(totalExpected) * 100))
		if percentage > 100 {
			percentage = 100
		}
	}

	current, longest := computeStreaks(doses, schedule, now, mode)

	return model.AdherenceSummary{
		TotalScheduledDoses: totalExpected,
		TotalTakenDoses:     taken,
		TotalMissedDoses:    missed,
		CurrentStreak:       current,
		LongestStreak:       longest,
		AdherencePercentage: percentage,
		LastCalculated:      now,
	}
}

func computeStreaks(doses []model.DoseEvent, schedule model.ScheduleConfig, now time.Time, mode StreakMode) (current, longest int) {
	if len(doses) == 0 {
		return 0, 0
	}

	sorted := make([]model.DoseEvent, len(doses))
	copy(sorted, doses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	if mode == StreakRelativeToSchedule {
		return scheduleAnchoredStreaks(sorted, schedule, now)
	}

	// A dose counts only while it lies within a day of now. The current
	// streak resets on the most recent dose; the longest streak is the
	// biggest run of counting doses.
	run := 0
	for i, d := range sorted {
		daysDiff := math.Abs(now.Sub(d.Date).Hours() / 24)
		if daysDiff <= streakToleranceDays {
			if i == 0 {
				current = 1
			} else {
				current++
			}
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 0
		}
	}
	if run > longest {
		longest = run
	}
	return current, longest
}

// scheduleAnchoredStreaks counts consecutive expected dose dates that
// were matched by a dose within the tolerance window, walking the
// schedule's own cadence rather than the dose gaps.
func scheduleAnchoredStreaks(sortedDesc []model.DoseEvent, schedule model.ScheduleConfig, now time.Time) (current, longest int) {
	expected := ExpectedDoseDates(schedule.StartDate, now, schedule.Frequency, schedule.CustomInterval)
	if len(expected) == 0 {
		return 0, 0
	}

	matched := make([]bool, len(expected))
	for i, exp := range expected {
		for _, d := range sortedDesc {
			if math.Abs(d.Date.Sub(exp).Hours()/24) <= streakToleranceDays {
				matched[i] = true
				break
			}
		}
	}

	run := 0
	for _, ok := range matched {
		if ok {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	current = run
	return current, longest
}

// WeeklyBreakdown splits [start, end] into 7-day buckets and reports
// expected versus taken doses per bucket.
func WeeklyBreakdown(doses []model.DoseEvent, schedule model.ScheduleConfig, start, end time.Time) []WeekAdherence {
	if start.After(end) {
		return nil
	}

	expected := ExpectedDoseDates(start, end, schedule.Frequency, schedule.CustomInterval)

	var weeks []WeekAdherence
	for weekStart := start; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 7)

		week := WeekAdherence{WeekStart: weekStart}
		for _, exp := range expected {
			if !exp.Before(weekStart) && exp.Before(weekEnd) {
				week.Expected++
			}
		}
		for _, d := range doses {
			if !d.Date.Before(weekStart) && d.Date.Before(weekEnd) {
				week.Taken++
			}
		}

		week.Percentage = 100
		if week.Expected > 0 {
			week.Percentage = int(math.Round(float64(week.Taken) / float64(week.Expected) * 100))
			if week.Percentage > 100 {
				week.Percentage = 100
			}
		}
		weeks = append(weeks, week)
	}
	return weeks
}
