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

// WeightRepositoryInterface defines the interface for weight entry
// data access
type WeightRepositoryInterface interface {
	Create(ctx context.Context, entry *model.WeightEntry) error
	FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WeightEntry, error)
	FindEarliestByUserID(ctx context.Context, userID string) (*model.WeightEntry, error)
	Delete(ctx context.Context, entryID string) error
}

// WeightService handles weight tracking business logic
type WeightService struct {
	weights WeightRepositoryInterface
	logger  *zap.Logger
}

// NewWeightService creates a new WeightService
func NewWeightService(weights WeightRepositoryInterface, logger *zap.Logger) *WeightService {
	return &WeightService{
		weights: weights,
		logger:  logger,
	}
}

// LogWeight records a weight measurement
func (s *WeightService) LogWeight(ctx context.Context, userID string, entry *model.WeightEntry) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if entry.Weight < minWeight || entry.Weight > maxWeight {
		return fmt.Errorf("invalid weight: must be between %.0f and %.0f", minWeight, maxWeight)
	}
	if entry.Unit != "kg" && entry.Unit != "lbs" {
		return fmt.Errorf("invalid weight unit: must be kg or lbs")
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.UserID = userID
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	entry.CreatedAt = time.Now()

	if err := s.weights.Create(ctx, entry); err != nil {
		s.logger.Error("failed to log weight",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to log weight: %w", err)
	}

	s.logger.Info("weight logged",
		zap.String("entry_id", entry.ID),
		zap.String("user_id", userID),
		zap.Float64("weight", entry.Weight),
	)

	return nil
}

// ListWeights retrieves weight entries for a user, newest first
func (s *WeightService) ListWeights(ctx context.Context, userID string, from, to time.Time) ([]model.WeightEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}

	entries, err := s.weights.FindByUserID(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight entries: %w", err)
	}

	return entries, nil
}

// WeightProgress summarizes weight change against the user's first
// logged measurement
type WeightProgress struct {
	Baseline      *model.WeightEntry `json:"baseline,omitempty"`
	Latest        *model.WeightEntry `json:"latest,omitempty"`
	TotalChange   *float64           `json:"total_change,omitempty"`
	PercentChange *float64           `json:"percent_change,omitempty"`
	EntriesLogged int                `json:"entries_logged"`
}

// Progress computes total weight change from the baseline entry
func (s *WeightService) Progress(ctx context.Context, userID string) (*WeightProgress, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	entries, err := s.weights.FindByUserID(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load weight entries: %w", err)
	}

	progress := &WeightProgress{EntriesLogged: len(entries)}
	if len(entries) == 0 {
		return progress, nil
	}

	// entries come back newest first
	latest := entries[0]
	baseline := entries[len(entries)-1]
	progress.Latest = &latest
	progress.Baseline = &baseline

	if baseline.Unit == latest.Unit {
		change := latest.Weight - baseline.Weight
		progress.TotalChange = &change
		if baseline.Weight > 0 {
			percent := math.Round(change/baseline.Weight*10000) / 100
			progress.PercentChange = &percent
		}
	}

	return progress, nil
}

// DeleteWeight deletes a weight entry
func (s *WeightService) DeleteWeight(ctx context.Context, entryID string) error {
	if entryID == "" {
		return fmt.Errorf("entry ID is required")
	}

	if err := s.weights.Delete(ctx, entryID); err != nil {
		s.logger.Error("failed to delete weight entry",
			zap.Error(err),
			zap.String("entry_id", entryID),
		)
		return fmt.Errorf("failed to delete weight entry: %w", err)
	}

	s.logger.Info("weight entry deleted",
		zap.String("entry_id", entryID),
	)

	return nil
}
