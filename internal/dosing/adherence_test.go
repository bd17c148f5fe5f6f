package dosing

import (
	"testing"
	"time"

	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doseOn(id string, date time.Time) model.DoseEvent {
	return model.DoseEvent{
		ID:         id,
		UserID:     "user-1",
		Date:       date,
		Medication: model.MedicationOzempic,
		Dosage:     model.Dosage05,
	}
}

func weeklySchedule(start time.Time) model.ScheduleConfig {
	return model.ScheduleConfig{
		ID:         "sched-1",
		UserID:     "user-1",
		Medication: model.MedicationOzempic,
		Dosage:     model.Dosage05,
		Frequency:  model.FrequencyWeekly,
		Active:     true,
		StartDate:  start,
	}
}

func TestExpectedDoseDates(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("weekly cadence", func(t *testing.T) {
		dates := ExpectedDoseDates(start, end, model.FrequencyWeekly, nil)
		require.Len(t, dates, 5)
		assert.True(t, dates[0].Equal(start))
		assert.True(t, dates[4].Equal(start.AddDate(0, 0, 28)))
	})

	t.Run("daily cadence", func(t *testing.T) {
		dates := ExpectedDoseDates(start, start.AddDate(0, 0, 6), model.FrequencyDaily, nil)
		assert.Len(t, dates, 7)
	})

	t.Run("custom cadence", func(t *testing.T) {
		dates := ExpectedDoseDates(start, end, model.FrequencyCustom, intPtr(10))
		require.Len(t, dates, 4)
		assert.True(t, dates[1].Equal(start.AddDate(0, 0, 10)))
	})

	t.Run("undetermined frequency yields no dates", func(t *testing.T) {
		assert.Empty(t, ExpectedDoseDates(start, end, model.FrequencyUndetermined, nil))
	})

	t.Run("custom cadence without an interval yields no dates", func(t *testing.T) {
		assert.Empty(t, ExpectedDoseDates(start, end, model.FrequencyCustom, nil))
	})

	t.Run("inverted window is empty", func(t *testing.T) {
		assert.Nil(t, ExpectedDoseDates(end, start, model.FrequencyWeekly, nil))
	})
}

func TestComputeAdherence(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	schedule := weeklySchedule(start)

	t.Run("partial adherence", func(t *testing.T) {
		doses := []model.DoseEvent{
			doseOn("d1", start),
			doseOn("d2", start.AddDate(0, 0, 7)),
			doseOn("d3", start.AddDate(0, 0, 14)),
		}

		summary := ComputeAdherence(doses, schedule, start, end, now, StreakRelativeToNow)
		assert.Equal(t, 5, summary.TotalScheduledDoses)
		assert.Equal(t, 3, summary.TotalTakenDoses)
		assert.Equal(t, 2, summary.TotalMissedDoses)
		assert.Equal(t, 60, summary.AdherencePercentage)
		assert.Equal(t, 1, summary.CurrentStreak)
		assert.Equal(t, 1, summary.LongestStreak)
		assert.True(t, summary.LastCalculated.Equal(now))
	})

	t.Run("only doses within a day of now count toward streaks", func(t *testing.T) {
		doses := []model.DoseEvent{
			doseOn("d1", now.AddDate(0, 0, -14)),
			doseOn("d2", now.AddDate(0, 0, -7)),
			doseOn("d3", now),
		}
		summary := ComputeAdherence(doses, schedule, start, end, now, StreakRelativeToNow)
		assert.Equal(t, 1, summary.CurrentStreak)
		assert.Equal(t, 1, summary.LongestStreak)
	})

	t.Run("undetermined frequency expects no doses", func(t *testing.T) {
		undetermined := schedule
		undetermined.Frequency = model.FrequencyUndetermined
		summary := ComputeAdherence(nil, undetermined, start, end, now, StreakRelativeToNow)
		assert.Zero(t, summary.TotalScheduledDoses)
		assert.Zero(t, summary.TotalMissedDoses)
		assert.Equal(t, 100, summary.AdherencePercentage)
	})

	t.Run("no doses", func(t *testing.T) {
		summary := ComputeAdherence(nil, schedule, start, end, now, StreakRelativeToNow)
		assert.Equal(t, 5, summary.TotalScheduledDoses)
		assert.Zero(t, summary.TotalTakenDoses)
		assert.Equal(t, 5, summary.TotalMissedDoses)
		assert.Zero(t, summary.AdherencePercentage)
		assert.Zero(t, summary.CurrentStreak)
		assert.Zero(t, summary.LongestStreak)
	})

	t.Run("empty window reports full adherence", func(t *testing.T) {
		summary := ComputeAdherence(nil, schedule, end, start, now, StreakRelativeToNow)
		assert.Zero(t, summary.TotalScheduledDoses)
		assert.Equal(t, 100, summary.AdherencePercentage)
	})

	t.Run("extra doses cap percentage at 100", func(t *testing.T) {
		var doses []model.DoseEvent
		for i := 0; i < 10; i++ {
			doses = append(doses, doseOn("d", start.AddDate(0, 0, i)))
		}
		summary := ComputeAdherence(doses, schedule, start, end, now, StreakRelativeToNow)
		assert.Equal(t, 100, summary.AdherencePercentage)
		assert.Zero(t, summary.TotalMissedDoses)
	})

	t.Run("stale doses yield no streak", func(t *testing.T) {
		doses := []model.DoseEvent{
			doseOn("d1", start),
			doseOn("d2", start.AddDate(0, 0, 7)),
		}
		later := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
		summary := ComputeAdherence(doses, schedule, start, end, later, StreakRelativeToNow)
		assert.Zero(t, summary.CurrentStreak)
		assert.Zero(t, summary.LongestStreak)
	})

	t.Run("schedule anchored streaks skip missed expected dates", func(t *testing.T) {
		doses := []model.DoseEvent{
			doseOn("d1", start),
			doseOn("d3", start.AddDate(0, 0, 14)),
		}
		summary := ComputeAdherence(doses, schedule, start, end, now, StreakRelativeToSchedule)
		assert.Equal(t, 1, summary.CurrentStreak)
		assert.Equal(t, 1, summary.LongestStreak)
	})
}

func TestWeeklyBreakdown(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
	schedule := weeklySchedule(start)

	doses := []model.DoseEvent{
		doseOn("d1", start),
		doseOn("d2", start.AddDate(0, 0, 7)),
	}

	weeks := WeeklyBreakdown(doses, schedule, start, end)
	require.Len(t, weeks, 4)

	assert.Equal(t, 1, weeks[0].Expected)
	assert.Equal(t, 1, weeks[0].Taken)
	assert.Equal(t, 100, weeks[0].Percentage)

	assert.Equal(t, 1, weeks[1].Taken)
	assert.Equal(t, 100, weeks[1].Percentage)

	assert.Equal(t, 1, weeks[2].Expected)
	assert.Zero(t, weeks[2].Taken)
	assert.Zero(t, weeks[2].Percentage)

	assert.Zero(t, weeks[3].Taken)
}
