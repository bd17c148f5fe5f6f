package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ActivityRepository manages logged workout sessions
type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new workout log
func (r *ActivityRepository) Create(ctx context.Context, workout *model.WorkoutLog) error {
	query := `
		INSERT INTO workout_logs (
			id, user_id, date, type, duration_minutes,
			intensity, calories_burned, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		workout.ID,
		workout.UserID,
		workout.Date,
		workout.Type,
		workout.DurationMinutes,
		workout.Intensity,
		workout.CaloriesBurned,
		workout.Notes,
	)

	if err != nil {
		r.logger.Error("failed to create workout log",
			zap.Error(err),
			zap.String("workout_id", workout.ID),
			zap.String("user_id", workout.UserID),
		)
		return fmt.Errorf("failed to create workout log: %w", err)
	}

	return nil
}

// FindByUserID retrieves workout logs for a user in a date range,
// newest first. Zero bounds disable the range filter.
func (r *ActivityRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WorkoutLog, error) {
	query := `
		SELECT id, user_id, date, type, duration_minutes,
		       intensity, calories_burned, notes, created_at
		FROM workout_logs
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
	`

	var fromArg, toArg interface{}
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}

	rows, err := r.db.Query(ctx, query, userID, fromArg, toArg)
	if err != nil {
		r.logger.Error("failed to find workout logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find workout logs: %w", err)
	}
	defer rows.Close()

	var workouts []model.WorkoutLog
	for rows.Next() {
		var workout model.WorkoutLog
		err := rows.Scan(
			&workout.ID,
			&workout.UserID,
			&workout.Date,
			&workout.Type,
			&workout.DurationMinutes,
			&workout.Intensity,
			&workout.CaloriesBurned,
			&workout.Notes,
			&workout.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan workout log", zap.Error(err))
			continue
		}
		workouts = append(workouts, workout)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating workout logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating workout logs: %w", err)
	}

	return workouts, nil
}

// Delete deletes a workout log
func (r *ActivityRepository) Delete(ctx context.Context, workoutID string) error {
	query := `DELETE FROM workout_logs WHERE id = $1`

	result, err := r.db.Exec(ctx, query, workoutID)
	if err != nil {
		r.logger.Error("failed to delete workout log",
			zap.Error(err),
			zap.String("workout_id", workoutID),
		)
		return fmt.Errorf("failed to delete workout log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workout log not found: %s", workoutID)
	}

	return nil
}
