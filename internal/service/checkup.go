package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	minWeight = 20.0
	maxWeight = 500.0
)

// CheckupRepositoryInterface defines the interface for weekly checkup
// data access
type CheckupRepositoryInterface interface {
	Create(ctx context.Context, checkup *model.WeeklyCheckupRecord) error
	FindByUserID(ctx context.Context, userID string) ([]model.WeeklyCheckupRecord, error)
	FindByID(ctx context.Context, checkupID string) (*model.WeeklyCheckupRecord, error)
	FindLatestByUserID(ctx context.Context, userID string) (*model.WeeklyCheckupRecord, error)
	FindPreviousByUserID(ctx context.Context, userID string, before time.Time) (*model.WeeklyCheckupRecord, error)
	Update(ctx context.Context, checkup *model.WeeklyCheckupRecord) error
	Delete(ctx context.Context, checkupID string) error
}

// CheckupService handles weekly checkup business logic
type CheckupService struct {
	checkups CheckupRepositoryInterface
	logger   *zap.Logger
}

// NewCheckupService creates a new CheckupService
func NewCheckupService(checkups CheckupRepositoryInterface, logger *zap.Logger) *CheckupService {
	return &CheckupService{
		checkups: checkups,
		logger:   logger,
	}
}

func validateConfidence(c model.ConfidenceFactors) error {
	probs := map[string]float64{
		"prior probability":     c.PriorProbability,
		"likelihood":            c.Likelihood,
		"posterior probability": c.PosteriorProbability,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("invalid %s: must be between 0 and 1", name)
		}
	}
	for factor, value := range c.IndividualFactors {
		if value < 0 || value > 1 {
			return fmt.Errorf("invalid individual factor %q: must be between 0 and 1", factor)
		}
	}
	if !c.ConfidenceLevel.Valid() {
		return fmt.Errorf("invalid confidence level: %s", c.ConfidenceLevel)
	}
	return nil
}

func validateCheckup(checkup *model.WeeklyCheckupRecord) error {
	if checkup.CurrentWeight < minWeight || checkup.CurrentWeight > maxWeight {
		return fmt.Errorf("invalid weight: must be between %.0f and %.0f", minWeight, maxWeight)
	}
	if checkup.WeightUnit != "kg" && checkup.WeightUnit != "lbs" {
		return fmt.Errorf("invalid weight unit: must be kg or lbs")
	}
	if checkup.OverallSeverity < 0 || checkup.OverallSeverity > 10 {
		return fmt.Errorf("invalid severity: must be between 0 and 10")
	}
	if !checkup.Recommendation.Valid() {
		return fmt.Errorf("invalid recommendation: %s", checkup.Recommendation)
	}
	return validateConfidence(checkup.Confidence)
}

// RecordCheckup stores a weekly checkup, deriving the weight change
// against the previous checkup when one exists
func (s *CheckupService) RecordCheckup(ctx context.Context, userID string, checkup *model.WeeklyCheckupRecord) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := validateCheckup(checkup); err != nil {
		return err
	}

	if checkup.ID == "" {
		checkup.ID = uuid.New().String()
	}
	checkup.UserID = userID
	if checkup.Date.IsZero() {
		checkup.Date = time.Now()
	}

	previous, err := s.checkups.FindLatestByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load previous checkup for weight delta",
			zap.Error(err),
			zap.String("user_id", userID),
		)
	} else if previous != nil && previous.WeightUnit == checkup.WeightUnit {
		change := checkup.CurrentWeight - previous.CurrentWeight
		checkup.WeightChange = &change
		if previous.CurrentWeight > 0 {
			percent := math.Round(change/previous.CurrentWeight*10000) / 100
			checkup.WeightChangePercent = &percent
		}
	}

	now := time.Now()
	checkup.CreatedAt = now
	checkup.UpdatedAt = now

	if err := s.checkups.Create(ctx, checkup); err != nil {
		s.logger.Error("failed to record checkup",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to record checkup: %w", err)
	}

	s.logger.Info("checkup recorded",
		zap.String("checkup_id", checkup.ID),
		zap.String("user_id", userID),
		zap.String("recommendation", string(checkup.Recommendation)),
		zap.String("confidence", string(checkup.Confidence.ConfidenceLevel)),
	)

	return nil
}

// ListCheckups retrieves all checkups for a user, newest first
func (s *CheckupService) ListCheckups(ctx context.Context, userID string) ([]model.WeeklyCheckupRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	checkups, err := s.checkups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkups: %w", err)
	}

	return checkups, nil
}

// LatestCheckup retrieves the most recent checkup. Returns nil without
// error when the user has none.
func (s *CheckupService) LatestCheckup(ctx context.Context, userID string) (*model.WeeklyCheckupRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	checkup, err := s.checkups.FindLatestByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest checkup: %w", err)
	}

	return checkup, nil
}

// UpdateCheckup updates an existing checkup. The weight delta is
// re-derived against the checkup preceding the updated date.
func (s *CheckupService) UpdateCheckup(ctx context.Context, checkupID string, checkup *model.WeeklyCheckupRecord) (*model.WeeklyCheckupRecord, error) {
	if checkupID == "" {
		return nil, fmt.Errorf("checkup ID is required")
	}
	if err := validateCheckup(checkup); err != nil {
		return nil, err
	}

	existing, err := s.checkups.FindByID(ctx, checkupID)
	if err != nil {
		return nil, err
	}

	existing.CurrentWeight = checkup.CurrentWeight
	existing.WeightUnit = checkup.WeightUnit
	existing.SideEffects = checkup.SideEffects
	existing.OverallSeverity = checkup.OverallSeverity
	existing.Recommendation = checkup.Recommendation
	existing.RecommendationReason = checkup.RecommendationReason
	existing.Confidence = checkup.Confidence
	existing.Notes = checkup.Notes
	if !checkup.Date.IsZero() {
		existing.Date = checkup.Date
	}

	existing.WeightChange = nil
	existing.WeightChangePercent = nil
	previous, err := s.checkups.FindPreviousByUserID(ctx, existing.UserID, existing.Date)
	if err != nil {
		s.logger.Warn("failed to load previous checkup for weight delta",
			zap.Error(err),
			zap.String("user_id", existing.UserID),
		)
	} else if previous != nil && previous.WeightUnit == existing.WeightUnit {
		change := existing.CurrentWeight - previous.CurrentWeight
		existing.WeightChange = &change
		if previous.CurrentWeight > 0 {
			percent := math.Round(change/previous.CurrentWeight*10000) / 100
			existing.WeightChangePercent = &percent
		}
	}

	existing.UpdatedAt = time.Now()

	if err := s.checkups.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update checkup",
			zap.Error(err),
			zap.String("checkup_id", checkupID),
		)
		return nil, fmt.Errorf("failed to update checkup: %w", err)
	}

	s.logger.Info("checkup updated",
		zap.String("checkup_id", checkupID),
		zap.String("user_id", existing.UserID),
	)

	return existing, nil
}

// CheckupAnalytics summarizes a user's checkup history
type CheckupAnalytics struct {
	TotalCheckups        int                                `json:"total_checkups"`
	AverageSeverity      float64                            `json:"average_severity"`
	RecommendationCounts map[model.DosageRecommendation]int `json:"recommendation_counts"`
	SideEffectCounts     map[string]int                     `json:"side_effect_counts"`
	LatestWeightChange   *float64                           `json:"latest_weight_change,omitempty"`
}

// Analytics aggregates recommendation and side effect frequencies over
// the user's checkup history
func (s *CheckupService) Analytics(ctx context.Context, userID string) (*CheckupAnalytics, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	checkups, err := s.checkups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkups: %w", err)
	}

	analytics := &CheckupAnalytics{
		TotalCheckups:        len(checkups),
		RecommendationCounts: make(map[model.DosageRecommendation]int),
		SideEffectCounts:     make(map[string]int),
	}
	if len(checkups) == 0 {
		return analytics, nil
	}

	severitySum := 0
	for _, checkup := range checkups {
		severitySum += checkup.OverallSeverity
		analytics.RecommendationCounts[checkup.Recommendation]++
		for _, effect := range checkup.SideEffects {
			analytics.SideEffectCounts[effect]++
		}
	}
	analytics.AverageSeverity = math.Round(float64(severitySum)/float64(len(checkups))*100) / 100

	// FindByUserID returns newest first
	analytics.LatestWeightChange = checkups[0].WeightChange

	return analytics, nil
}

// GetCheckup retrieves a single checkup
func (s *CheckupService) GetCheckup(ctx context.Context, checkupID string) (*model.WeeklyCheckupRecord, error) {
	if checkupID == "" {
		return nil, fmt.Errorf("checkup ID is required")
	}
	return s.checkups.FindByID(ctx, checkupID)
}

// DeleteCheckup deletes a checkup
func (s *CheckupService) DeleteCheckup(ctx context.Context, checkupID string) error {
	if checkupID == "" {
		return fmt.Errorf("checkup ID is required")
	}

	if err := s.checkups.Delete(ctx, checkupID); err != nil {
		s.logger.Error("failed to delete checkup",
			zap.Error(err),
			zap.String("checkup_id", checkupID),
		)
		return fmt.Errorf("failed to delete checkup: %w", err)
	}

	s.logger.Info("checkup deleted",
		zap.String("checkup_id", checkupID),
	)

	return nil
}
