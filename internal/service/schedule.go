package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ScheduleRepositoryInterface defines the interface for schedule data access
type ScheduleRepositoryInterface interface {
	CreateActive(ctx context.Context, sched *model.ScheduleConfig) error
	Update(ctx context.Context, sched *model.ScheduleConfig) error
	FindActiveByUserID(ctx context.Context, userID string) (*model.ScheduleConfig, error)
	FindByID(ctx context.Context, scheduleID string) (*model.ScheduleConfig, error)
	SaveAdherence(ctx context.Context, scheduleID string, adherence model.AdherenceSummary) error
	AppendAdjustment(ctx context.Context, adj *model.ScheduleAdjustment) error
	FindAdjustments(ctx context.Context, scheduleID string) ([]model.ScheduleAdjustment, error)
}

// DoseHistoryInterface is the slice of dose access the schedule
// service needs
type DoseHistoryInterface interface {
	FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.DoseEvent, error)
}

// ScheduleService handles dosing schedule business logic
type ScheduleService struct {
	schedules  ScheduleRepositoryInterface
	doses      DoseHistoryInterface
	streakMode dosing.StreakMode
	logger     *zap.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(schedules ScheduleRepositoryInterface, doses DoseHistoryInterface, streakMode dosing.StreakMode, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		schedules:  schedules,
		doses:      doses,
		streakMode: streakMode,
		logger:     logger,
	}
}

func validateSchedule(sched *model.ScheduleConfig) error {
	if !sched.Medication.Valid() {
		return fmt.Errorf("invalid medication: %s", sched.Medication)
	}
	if !sched.Dosage.Valid() {
		return fmt.Errorf("invalid dosage: %s", sched.Dosage)
	}
	switch sched.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyUndetermined:
	case model.FrequencyCustom:
		if sched.CustomInterval == nil || *sched.CustomInterval < 1 {
			return fmt.Errorf("custom frequency requires a positive interval in days")
		}
	default:
		return fmt.Errorf("invalid frequency: %s", sched.Frequency)
	}
	if sched.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if sched.EndDate != nil && sched.EndDate.Before(sched.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

// scheduleDiff records one field change for the adjustment history
type scheduleDiff struct {
	reason   model.AdjustmentReason
	field    string
	oldValue string
	newValue string
}

func diffSchedules(existing, updated *model.ScheduleConfig) []scheduleDiff {
	var diffs []scheduleDiff
	if existing.Medication != updated.Medication {
		diffs = append(diffs, scheduleDiff{
			reason:   model.AdjustmentMedicationChange,
			field:    "medication",
			oldValue: string(existing.Medication),
			newValue: string(updated.Medication),
		})
	}
	if existing.Dosage != updated.Dosage {
		diffs = append(diffs, scheduleDiff{
			reason:   model.AdjustmentDoseChange,
			field:    "dosage",
			oldValue: string(existing.Dosage),
			newValue: string(updated.Dosage),
		})
	}
	if existing.Frequency != updated.Frequency {
		diffs = append(diffs, scheduleDiff{
			reason:   model.AdjustmentFrequencyChange,
			field:    "frequency",
			oldValue: string(existing.Frequency),
			newValue: string(updated.Frequency),
		})
	}
	return diffs
}

// UpsertSchedule creates the user's schedule or updates the active
// one. Updates append an adjustment record for every changed
// medication, dosage or frequency so the history stays auditable.
func (s *ScheduleService) UpsertSchedule(ctx context.Context, userID string, sched *model.ScheduleConfig) (*model.ScheduleConfig, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if err := validateSchedule(sched); err != nil {
		return nil, err
	}

	sched.UserID = userID
	if sched.TimeZone == "" {
		sched.TimeZone = "UTC"
	}
	if len(sched.Reminders.PreDoseHours) == 0 && len(sched.Reminders.PostDoseHours) == 0 && len(sched.Reminders.MissedDoseHours) == 0 {
		sched.Reminders = model.DefaultReminderSettings()
	}

	existing, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedule: %w", err)
	}

	if existing == nil {
		sched.ID = uuid.New().String()
		sched.Adherence = model.AdherenceSummary{LastCalculated: time.Now()}
		if err := s.schedules.CreateActive(ctx, sched); err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}

		s.logger.Info("schedule created",
			zap.String("schedule_id", sched.ID),
			zap.String("user_id", userID),
			zap.String("medication", string(sched.Medication)),
			zap.String("frequency", string(sched.Frequency)),
		)
		return sched, nil
	}

	for _, diff := range diffSchedules(existing, sched) {
		adj := &model.ScheduleAdjustment{
			ID:         uuid.New().String(),
			ScheduleID: existing.ID,
			Date:       time.Now(),
			Reason:     diff.reason,
			OldValue:   map[string]string{diff.field: diff.oldValue},
			NewValue:   map[string]string{diff.field: diff.newValue},
		}
		if err := s.schedules.AppendAdjustment(ctx, adj); err != nil {
			s.logger.Warn("failed to record schedule adjustment",
				zap.Error(err),
				zap.String("schedule_id", existing.ID),
				zap.String("field", diff.field),
			)
		}
	}

	sched.ID = existing.ID
	sched.Active = true
	sched.CreatedAt = existing.CreatedAt
	sched.Adherence = existing.Adherence
	sched.UpdatedAt = time.Now()

	if err := s.schedules.Update(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	s.logger.Info("schedule updated",
		zap.String("schedule_id", sched.ID),
		zap.String("user_id", userID),
		zap.String("medication", string(sched.Medication)),
	)

	return sched, nil
}

// GetSchedule retrieves the user's active schedule with its adjustment
// history attached. Returns nil without error when none exists.
func (s *ScheduleService) GetSchedule(ctx context.Context, userID string) (*model.ScheduleConfig, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	sched, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedule: %w", err)
	}
	if sched == nil {
		return nil, nil
	}

	adjustments, err := s.schedules.FindAdjustments(ctx, sched.ID)
	if err != nil {
		s.logger.Warn("failed to load schedule adjustments",
			zap.Error(err),
			zap.String("schedule_id", sched.ID),
		)
	} else {
		sched.Adjustments = adjustments
	}

	return sched, nil
}

// AdherenceReport combines the summary with a per-week breakdown
type AdherenceReport struct {
	Summary model.AdherenceSummary `json:"summary"`
	Weekly  []dosing.WeekAdherence `json:"weekly"`
}

// Adherence recomputes adherence over [from, to] from dose history and
// persists the summary back onto the schedule. The window defaults to
// the last 30 days.
func (s *ScheduleService) Adherence(ctx context.Context, userID string, from, to time.Time) (*AdherenceReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	sched, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedule: %w", err)
	}
	if sched == nil {
		return nil, fmt.Errorf("no active schedule for user: %s", userID)
	}

	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}
	if sched.StartDate.After(from) {
		from = sched.StartDate
	}

	doses, err := s.doses.FindByUserID(ctx, userID, from, to, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load doses for adherence: %w", err)
	}

	summary := dosing.ComputeAdherence(doses, *sched, from, to, now, s.streakMode)
	weekly := dosing.WeeklyBreakdown(doses, *sched, from, to)

	// The stored summary is a cache of this computation; losing the
	// write only means the next read recomputes it
	if err := s.schedules.SaveAdherence(ctx, sched.ID, summary); err != nil {
		s.logger.Warn("failed to persist adherence summary",
			zap.Error(err),
			zap.String("schedule_id", sched.ID),
		)
	}

	s.logger.Info("adherence computed",
		zap.String("user_id", userID),
		zap.Int("expected", summary.TotalScheduledDoses),
		zap.Int("taken", summary.TotalTakenDoses),
		zap.Int("percentage", summary.AdherencePercentage),
	)

	return &AdherenceReport{Summary: summary, Weekly: weekly}, nil
}

// Calendar projects the schedule over a month and marks each expected
// dose date taken, overdue or scheduled
func (s *ScheduleService) Calendar(ctx context.Context, userID string, year int, month time.Month) ([]dosing.CalendarEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	sched, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedule: %w", err)
	}
	if sched == nil {
		return nil, fmt.Errorf("no active schedule for user: %s", userID)
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	// widen the dose window by a day on each side so doses matching
	// edge dates with tolerance are not missed
	doses, err := s.doses.FindByUserID(ctx, userID, monthStart.AddDate(0, 0, -1), monthEnd.AddDate(0, 0, 1), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load doses for calendar: %w", err)
	}

	return dosing.BuildCalendar(doses, *sched, monthStart, monthEnd, time.Now()), nil
}
