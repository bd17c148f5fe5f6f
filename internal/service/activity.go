package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	minWorkoutMinutes = 1
	maxWorkoutMinutes = 600
)

// ActivityRepositoryInterface defines the interface for workout log
// data access
type ActivityRepositoryInterface interface {
	Create(ctx context.Context, workout *model.WorkoutLog) error
	FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WorkoutLog, error)
	Delete(ctx context.Context, workoutID string) error
}

// ActivityService handles workout logging business logic
type ActivityService struct {
	workouts ActivityRepositoryInterface
	logger   *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(workouts ActivityRepositoryInterface, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		workouts: workouts,
		logger:   logger,
	}
}

// LogWorkout records a workout session
func (s *ActivityService) LogWorkout(ctx context.Context, userID string, workout *model.WorkoutLog) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !workout.Type.Valid() {
		return fmt.Errorf("invalid workout type: %s", workout.Type)
	}
	if workout.DurationMinutes < minWorkoutMinutes || workout.DurationMinutes > maxWorkoutMinutes {
		return fmt.Errorf("invalid duration: must be between %d and %d minutes", minWorkoutMinutes, maxWorkoutMinutes)
	}
	if workout.Intensity < 1 || workout.Intensity > 10 {
		return fmt.Errorf("invalid intensity: must be between 1 and 10")
	}
	if workout.CaloriesBurned < 0 {
		return fmt.Errorf("invalid calories burned: cannot be negative")
	}

	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}
	workout.UserID = userID
	if workout.Date.IsZero() {
		workout.Date = time.Now()
	}
	workout.CreatedAt = time.Now()

	if err := s.workouts.Create(ctx, workout); err != nil {
		s.logger.Error("failed to log workout",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to log workout: %w", err)
	}

	s.logger.Info("workout logged",
		zap.String("workout_id", workout.ID),
		zap.String("user_id", userID),
		zap.String("type", string(workout.Type)),
		zap.Int("duration_minutes", workout.DurationMinutes),
	)

	return nil
}

// ListWorkouts retrieves workout logs for a user, newest first
func (s *ActivityService) ListWorkouts(ctx context.Context, userID string, from, to time.Time) ([]model.WorkoutLog, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}

	workouts, err := s.workouts.FindByUserID(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}

	return workouts, nil
}

// ActivitySummary aggregates a user's workout history
type ActivitySummary struct {
	TotalWorkouts       int                       `json:"total_workouts"`
	TotalMinutes        int                       `json:"total_minutes"`
	TotalCaloriesBurned float64                   `json:"total_calories_burned"`
	AverageIntensity    float64                   `json:"average_intensity"`
	TypeCounts          map[model.WorkoutType]int `json:"type_counts"`
}

// Summary aggregates the user's workouts in a date range
func (s *ActivityService) Summary(ctx context.Context, userID string, from, to time.Time) (*ActivitySummary, error) {
	workouts, err := s.ListWorkouts(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &ActivitySummary{
		TotalWorkouts: len(workouts),
		TypeCounts:    make(map[model.WorkoutType]int),
	}

	intensitySum := 0
	for _, workout := range workouts {
		summary.TotalMinutes += workout.DurationMinutes
		summary.TotalCaloriesBurned += workout.CaloriesBurned
		summary.TypeCounts[workout.Type]++
		intensitySum += workout.Intensity
	}
	if len(workouts) > 0 {
		summary.AverageIntensity = float64(intensitySum) / float64(len(workouts))
	}

	return summary, nil
}

// DeleteWorkout deletes a workout log
func (s *ActivityService) DeleteWorkout(ctx context.Context, workoutID string) error {
	if workoutID == "" {
		return fmt.Errorf("workout ID is required")
	}

	if err := s.workouts.Delete(ctx, workoutID); err != nil {
		s.logger.Error("failed to delete workout log",
			zap.Error(err),
			zap.String("workout_id", workoutID),
		)
		return fmt.Errorf("failed to delete workout log: %w", err)
	}

	s.logger.Info("workout log deleted",
		zap.String("workout_id", workoutID),
	)

	return nil
}
