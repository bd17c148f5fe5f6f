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

// SnapshotRepositoryInterface defines the interface for level snapshot
// data access
type SnapshotRepositoryInterface interface {
	Create(ctx context.Context, snap *model.MedicationLevelSnapshot) error
	FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.MedicationLevelSnapshot, error)
}

// DoseReaderInterface is the slice of dose access the level service needs
type DoseReaderInterface interface {
	FindLatestByUserID(ctx context.Context, userID string) (*model.DoseEvent, error)
	FindLatestBefore(ctx context.Context, userID string, at time.Time) (*model.DoseEvent, error)
}

// LevelService estimates medication levels from dose history
type LevelService struct {
	doses     DoseReaderInterface
	schedules ScheduleReaderInterface
	snapshots SnapshotRepositoryInterface
	policy    dosing.ThresholdPolicy
	logger    *zap.Logger
}

// NewLevelService creates a new LevelService
func NewLevelService(doses DoseReaderInterface, schedules ScheduleReaderInterface, snapshots SnapshotRepositoryInterface, policy dosing.ThresholdPolicy, logger *zap.Logger) *LevelService {
	return &LevelService{
		doses:     doses,
		schedules: schedules,
		snapshots: snapshots,
		policy:    policy,
		logger:    logger,
	}
}

// LevelResult is the outcome of a level query. HasData is false when
// the user has no dose history at or before the requested time, in
// which case the estimate is absent.
type LevelResult struct {
	HasData    bool             `json:"has_data"`
	At         time.Time        `json:"at"`
	Medication model.Medication `json:"medication,omitempty"`
	Dosage     model.Dosage     `json:"dosage,omitempty"`
	LastDoseID string           `json:"last_dose_id,omitempty"`
	Estimate   *dosing.Estimate `json:"estimate,omitempty"`
}

func (s *LevelService) scheduleCadence(ctx context.Context, userID string) (model.Frequency, *int) {
	schedule, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load active schedule for level estimate",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return model.FrequencyWeekly, nil
	}
	if schedule == nil {
		return model.FrequencyWeekly, nil
	}
	return schedule.Frequency, schedule.CustomInterval
}

// CurrentLevel estimates the user's medication level right now
func (s *LevelService) CurrentLevel(ctx context.Context, userID string) (*LevelResult, error) {
	return s.LevelAt(ctx, userID, time.Now())
}

// LevelAt estimates the user's medication level at a point in time,
// based on the most recent dose at or before it
func (s *LevelService) LevelAt(ctx context.Context, userID string, at time.Time) (*LevelResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	dose, err := s.doses.FindLatestBefore(ctx, userID, at)
	if err != nil {
		s.logger.Error("failed to find dose for level estimate",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to find dose for level estimate: %w", err)
	}
	if dose == nil {
		return &LevelResult{HasData: false, At: at}, nil
	}

	frequency, customInterval := s.scheduleCadence(ctx, userID)
	estimate := dosing.EstimateAt(dose.Medication, frequency, customInterval, dose.Date, at, s.policy)

	return &LevelResult{
		HasData:    true,
		At:         at,
		Medication: dose.Medication,
		Dosage:     dose.Dosage,
		LastDoseID: dose.ID,
		Estimate:   &estimate,
	}, nil
}

// Calculate estimates the level for explicit inputs without touching
// stored history. Useful for what-if queries from the client.
func (s *LevelService) Calculate(medication model.Medication, frequency model.Frequency, customInterval *int, lastDose, at time.Time) (*dosing.Estimate, error) {
	if !medication.Valid() {
		return nil, fmt.Errorf("invalid medication: %s", medication)
	}
	if lastDose.IsZero() {
		return nil, fmt.Errorf("last dose date is required")
	}
	if at.IsZero() {
		at = time.Now()
	}

	estimate := dosing.EstimateAt(medication, frequency, customInterval, lastDose, at, s.policy)
	return &estimate, nil
}

// History retrieves stored level snapshots for a user
func (s *LevelService) History(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.MedicationLevelSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}

	snapshots, err := s.snapshots.FindByUserID(ctx, userID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load level history: %w", err)
	}

	return snapshots, nil
}

// SnapshotNow computes the current level and appends it to the
// snapshot history. Returns nil without error when the user has no
// dose history.
func (s *LevelService) SnapshotNow(ctx context.Context, userID string) (*model.MedicationLevelSnapshot, error) {
	result, err := s.CurrentLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !result.HasData {
		return nil, nil
	}

	snap := &model.MedicationLevelSnapshot{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Date:               result.At,
		Medication:         result.Medication,
		Dosage:             result.Dosage,
		CalculatedLevel:    result.Estimate.Level,
		PercentageOfPeak:   result.Estimate.PercentageOfPeak,
		DoseEventID:        &result.LastDoseID,
		DaysSinceLastDose:  result.Estimate.DaysSinceDose,
		HoursSinceLastDose: result.Estimate.HoursSinceDose,
		NextDueDate:        &result.Estimate.NextDueDate,
		Status:             result.Estimate.Status,
	}

	if err := s.snapshots.Create(ctx, snap); err != nil {
		s.logger.Error("failed to record level snapshot",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to record level snapshot: %w", err)
	}

	s.logger.Info("level snapshot recorded",
		zap.String("snapshot_id", snap.ID),
		zap.String("user_id", userID),
		zap.Float64("level", snap.CalculatedLevel),
		zap.String("status", string(snap.Status)),
	)

	return snap, nil
}
