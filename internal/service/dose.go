package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/azure"
	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/internal/repository"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// maxNotesLength bounds free-text notes on dose events
const maxNotesLength = 500

// DoseRepositoryInterface defines the interface for dose event data access
type DoseRepositoryInterface interface {
	Create(ctx context.Context, dose *model.DoseEvent) error
	FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.DoseEvent, error)
	FindByID(ctx context.Context, doseID string) (*model.DoseEvent, error)
	FindLatestByUserID(ctx context.Context, userID string) (*model.DoseEvent, error)
	RecentSites(ctx context.Context, userID string, limit int) ([]model.InjectionSite, error)
	Update(ctx context.Context, dose *model.DoseEvent) error
	Delete(ctx context.Context, doseID string) error
	Stats(ctx context.Context, userID string) (*repository.DoseStats, error)
}

// ScheduleReaderInterface is the slice of schedule access the dose
// service needs
type ScheduleReaderInterface interface {
	FindActiveByUserID(ctx context.Context, userID string) (*model.ScheduleConfig, error)
}

// SnapshotWriterInterface records medication level snapshots
type SnapshotWriterInterface interface {
	Create(ctx context.Context, snap *model.MedicationLevelSnapshot) error
}

// DoseService handles dose logging business logic
type DoseService struct {
	doses     DoseRepositoryInterface
	schedules ScheduleReaderInterface
	snapshots SnapshotWriterInterface
	blob      azure.BlobStorage
	policy    dosing.ThresholdPolicy
	logger    *zap.Logger
}

// NewDoseService creates a new DoseService. blob may be nil when photo
// storage is not configured.
func NewDoseService(doses DoseRepositoryInterface, schedules ScheduleReaderInterface, snapshots SnapshotWriterInterface, blob azure.BlobStorage, policy dosing.ThresholdPolicy, logger *zap.Logger) *DoseService {
	return &DoseService{
		doses:     doses,
		schedules: schedules,
		snapshots: snapshots,
		blob:      blob,
		policy:    policy,
		logger:    logger,
	}
}

func validateDose(dose *model.DoseEvent) error {
	if !dose.Medication.Valid() {
		return fmt.Errorf("invalid medication: %s", dose.Medication)
	}
	if !dose.Dosage.Valid() {
		return fmt.Errorf("invalid dosage: %s", dose.Dosage)
	}
	if !dose.InjectionSite.Valid() {
		return fmt.Errorf("invalid injection site: %s", dose.InjectionSite)
	}
	if dose.PainLevel < 0 || dose.PainLevel > 10 {
		return fmt.Errorf("invalid pain level: must be between 0 and 10")
	}
	if dose.Notes != nil && len(*dose.Notes) > maxNotesLength {
		return fmt.Errorf("notes too long: must be at most %d characters", maxNotesLength)
	}
	return nil
}

// LogDose records a new injection. The next due date is derived from
// the user's active schedule when one exists, falling back to a weekly
// cadence otherwise, and a level snapshot is appended in the
// background so the history chart picks up the new peak.
func (s *DoseService) LogDose(ctx context.Context, userID string, dose *model.DoseEvent) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := validateDose(dose); err != nil {
		return err
	}

	if dose.ID == "" {
		dose.ID = uuid.New().String()
	}
	dose.UserID = userID
	if dose.Date.IsZero() {
		dose.Date = time.Now()
	}

	frequency := model.FrequencyWeekly
	var customInterval *int
	schedule, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load active schedule, using weekly cadence",
			zap.Error(err),
			zap.String("user_id", userID),
		)
	} else if schedule != nil {
		frequency = schedule.Frequency
		customInterval = schedule.CustomInterval
	}

	nextDue, exact := dosing.NextDueDate(dose.Date, frequency, customInterval)
	if !exact {
		s.logger.Info("frequency has no exact interval, using weekly fallback for next due date",
			zap.String("user_id", userID),
			zap.String("frequency", string(frequency)),
		)
	}
	dose.NextDueDate = nextDue

	now := time.Now()
	dose.CreatedAt = now
	dose.UpdatedAt = now

	if err := s.doses.Create(ctx, dose); err != nil {
		s.logger.Error("failed to log dose",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("medication", string(dose.Medication)),
		)
		return fmt.Errorf("failed to log dose: %w", err)
	}

	s.logger.Info("dose logged successfully",
		zap.String("dose_id", dose.ID),
		zap.String("user_id", userID),
		zap.String("medication", string(dose.Medication)),
		zap.String("injection_site", string(dose.InjectionSite)),
	)

	// Snapshot failures must never fail the dose log itself
	go s.snapshotAfterDose(*dose, frequency, customInterval)

	return nil
}

func (s *DoseService) snapshotAfterDose(dose model.DoseEvent, frequency model.Frequency, customInterval *int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	estimate := dosing.EstimateAt(dose.Medication, frequency, customInterval, dose.Date, time.Now(), s.policy)

	snap := &model.MedicationLevelSnapshot{
		ID:                 uuid.New().String(),
		UserID:             dose.UserID,
		Date:               time.Now(),
		Medication:         dose.Medication,
		Dosage:             dose.Dosage,
		CalculatedLevel:    estimate.Level,
		PercentageOfPeak:   estimate.PercentageOfPeak,
		DoseEventID:        &dose.ID,
		DaysSinceLastDose:  estimate.DaysSinceDose,
		HoursSinceLastDose: estimate.HoursSinceDose,
		NextDueDate:        &estimate.NextDueDate,
		Status:             estimate.Status,
	}

	if err := s.snapshots.Create(ctx, snap); err != nil {
		s.logger.Warn("failed to record level snapshot after dose",
			zap.Error(err),
			zap.String("dose_id", dose.ID),
			zap.String("user_id", dose.UserID),
		)
	}
}

// ListDoses retrieves a user's dose history, optionally filtered by
// date range and limited in count
func (s *DoseService) ListDoses(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.DoseEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}

	doses, err := s.doses.FindByUserID(ctx, userID, from, to, limit)
	if err != nil {
		s.logger.Error("failed to list doses",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list doses: %w", err)
	}

	return doses, nil
}

// GetDose retrieves a single dose event
func (s *DoseService) GetDose(ctx context.Context, doseID string) (*model.DoseEvent, error) {
	if doseID == "" {
		return nil, fmt.Errorf("dose ID is required")
	}
	return s.doses.FindByID(ctx, doseID)
}

// UpdateDose updates an existing dose event, recomputing the next due
// date when the dose date changed
func (s *DoseService) UpdateDose(ctx context.Context, doseID string, updates *model.DoseEvent) error {
	if doseID == "" {
		return fmt.Errorf("dose ID is required")
	}
	if err := validateDose(updates); err != nil {
		return err
	}

	existing, err := s.doses.FindByID(ctx, doseID)
	if err != nil {
		return fmt.Errorf("dose not found: %w", err)
	}

	updates.ID = existing.ID
	updates.UserID = existing.UserID
	if updates.Date.IsZero() {
		updates.Date = existing.Date
	}
	updates.PhotoPath = existing.PhotoPath

	frequency := model.FrequencyWeekly
	var customInterval *int
	if schedule, err := s.schedules.FindActiveByUserID(ctx, existing.UserID); err == nil && schedule != nil {
		frequency = schedule.Frequency
		customInterval = schedule.CustomInterval
	}
	updates.NextDueDate, _ = dosing.NextDueDate(updates.Date, frequency, customInterval)
	updates.UpdatedAt = time.Now()

	if err := s.doses.Update(ctx, updates); err != nil {
		s.logger.Error("failed to update dose",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		return fmt.Errorf("failed to update dose: %w", err)
	}

	s.logger.Info("dose updated successfully",
		zap.String("dose_id", doseID),
	)

	return nil
}

// DeleteDose deletes a dose event
func (s *DoseService) DeleteDose(ctx context.Context, doseID string) error {
	if doseID == "" {
		return fmt.Errorf("dose ID is required")
	}

	if err := s.doses.Delete(ctx, doseID); err != nil {
		s.logger.Error("failed to delete dose",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		return fmt.Errorf("failed to delete dose: %w", err)
	}

	s.logger.Info("dose deleted successfully",
		zap.String("dose_id", doseID),
	)

	return nil
}

// LatestDose retrieves the user's most recent dose. Returns nil
// without error when none exists.
func (s *DoseService) LatestDose(ctx context.Context, userID string) (*model.DoseEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	return s.doses.FindLatestByUserID(ctx, userID)
}

// NextDoseInfo describes when the next dose is due
type NextDoseInfo struct {
	NextDueDate    time.Time        `json:"next_due_date"`
	HoursUntilDue  float64          `json:"hours_until_due"`
	Countdown      string           `json:"countdown"`
	Overdue        bool             `json:"overdue"`
	ReminderDue    bool             `json:"reminder_due"`
	UsedFallback   bool             `json:"used_fallback"`
	LastDoseID     string           `json:"last_dose_id"`
	LastDoseDate   time.Time        `json:"last_dose_date"`
	LastMedication model.Medication `json:"last_medication"`
}

// NextDose computes when the user's next dose is due from their latest
// dose and active schedule. Returns nil without error when the user
// has no dose history yet.
func (s *DoseService) NextDose(ctx context.Context, userID string) (*NextDoseInfo, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	latest, err := s.doses.FindLatestByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest dose: %w", err)
	}
	if latest == nil {
		return nil, nil
	}

	frequency := model.FrequencyWeekly
	var customInterval *int
	if schedule, err := s.schedules.FindActiveByUserID(ctx, userID); err == nil && schedule != nil {
		frequency = schedule.Frequency
		customInterval = schedule.CustomInterval
	}

	nextDue, exact := dosing.NextDueDate(latest.Date, frequency, customInterval)
	hoursUntil := dosing.HoursUntilDue(nextDue, time.Now())

	return &NextDoseInfo{
		NextDueDate:    nextDue,
		HoursUntilDue:  hoursUntil,
		Countdown:      dosing.FormatCountdown(hoursUntil),
		Overdue:        hoursUntil < 0,
		ReminderDue:    dosing.ShouldSendReminder(hoursUntil),
		UsedFallback:   !exact,
		LastDoseID:     latest.ID,
		LastDoseDate:   latest.Date,
		LastMedication: latest.Medication,
	}, nil
}

// RecommendSites suggests injection sites not used recently
func (s *DoseService) RecommendSites(ctx context.Context, userID string) ([]model.InjectionSite, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	recent, err := s.doses.RecentSites(ctx, userID, 3)
	if err != nil {
		s.logger.Error("failed to load recent injection sites",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to load recent injection sites: %w", err)
	}

	return dosing.RecommendSites(recent), nil
}

// AttachPhoto uploads an injection site photo and links it to a dose
func (s *DoseService) AttachPhoto(ctx context.Context, doseID string, filename string, photo io.Reader) (string, error) {
	if doseID == "" {
		return "", fmt.Errorf("dose ID is required")
	}
	if s.blob == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}

	dose, err := s.doses.FindByID(ctx, doseID)
	if err != nil {
		return "", fmt.Errorf("dose not found: %w", err)
	}

	blobName, err := s.blob.UploadPhoto(ctx, fmt.Sprintf("%s-%s", doseID, filename), photo)
	if err != nil {
		s.logger.Error("failed to upload dose photo",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		return "", fmt.Errorf("failed to upload dose photo: %w", err)
	}

	dose.PhotoPath = &blobName
	dose.UpdatedAt = time.Now()
	if err := s.doses.Update(ctx, dose); err != nil {
		return "", fmt.Errorf("failed to link photo to dose: %w", err)
	}

	s.logger.Info("dose photo attached",
		zap.String("dose_id", doseID),
		zap.String("blob_name", blobName),
	)

	return blobName, nil
}

// GetPhoto downloads the photo attached to a dose
func (s *DoseService) GetPhoto(ctx context.Context, doseID string) ([]byte, error) {
	if doseID == "" {
		return nil, fmt.Errorf("dose ID is required")
	}
	if s.blob == nil {
		return nil, fmt.Errorf("photo storage is not configured")
	}

	dose, err := s.doses.FindByID(ctx, doseID)
	if err != nil {
		return nil, fmt.Errorf("dose not found: %w", err)
	}
	if dose.PhotoPath == nil {
		return nil, fmt.Errorf("dose has no photo: %s", doseID)
	}

	return s.blob.DownloadPhoto(ctx, *dose.PhotoPath)
}

// Stats retrieves aggregate dose statistics for a user
func (s *DoseService) Stats(ctx context.Context, userID string) (*repository.DoseStats, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	stats, err := s.doses.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dose stats: %w", err)
	}

	return stats, nil
}
