package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// NutritionRepository manages logged meals
type NutritionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewNutritionRepository creates a new NutritionRepository
func NewNutritionRepository(db *pgxpool.Pool, logger *zap.Logger) *NutritionRepository {
	return &NutritionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new meal log
func (r *NutritionRepository) Create(ctx context.Context, meal *model.MealLog) error {
	query := `
		INSERT INTO meal_logs (
			id, user_id, date, meal_type, foods,
			total_calories, total_protein, total_carbs, total_fat, total_fiber,
			notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		meal.ID,
		meal.UserID,
		meal.Date,
		meal.MealType,
		meal.Foods,
		meal.TotalCalories,
		meal.TotalProtein,
		meal.TotalCarbs,
		meal.TotalFat,
		meal.TotalFiber,
		meal.Notes,
	)

	if err != nil {
		r.logger.Error("failed to create meal log",
			zap.Error(err),
			zap.String("meal_id", meal.ID),
			zap.String("user_id", meal.UserID),
		)
		return fmt.Errorf("failed to create meal log: %w", err)
	}

	return nil
}

// FindByUserID retrieves meal logs for a user in a date range, newest
// first. Zero bounds disable the range filter.
func (r *NutritionRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.MealLog, error) {
	query := `
		SELECT id, user_id, date, meal_type, foods,
		       total_calories, total_protein, total_carbs, total_fat, total_fiber,
		       notes, created_at
		FROM meal_logs
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
		r.logger.Error("failed to find meal logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find meal logs: %w", err)
	}
	defer rows.Close()

	var meals []model.MealLog
	for rows.Next() {
		var meal model.MealLog
		err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Date,
			&meal.MealType,
			&meal.Foods,
			&meal.TotalCalories,
			&meal.TotalProtein,
			&meal.TotalCarbs,
			&meal.TotalFat,
			&meal.TotalFiber,
			&meal.Notes,
			&meal.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan meal log", zap.Error(err))
			continue
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating meal logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating meal logs: %w", err)
	}

	return meals, nil
}

// Delete deletes a meal log
func (r *NutritionRepository) Delete(ctx context.Context, mealID string) error {
	query := `DELETE FROM meal_logs WHERE id = $1`

	result, err := r.db.Exec(ctx, query, mealID)
	if err != nil {
		r.logger.Error("failed to delete meal log",
			zap.Error(err),
			zap.String("meal_id", mealID),
		)
		return fmt.Errorf("failed to delete meal log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("meal log not found: %s", mealID)
	}

	return nil
}
