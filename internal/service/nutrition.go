package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// NutritionRepositoryInterface defines the interface for meal log data
// access
type NutritionRepositoryInterface interface {
	Create(ctx context.Context, meal *model.MealLog) error
	FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.MealLog, error)
	Delete(ctx context.Context, mealID string) error
}

// NutritionService handles meal logging business logic
type NutritionService struct {
	meals  NutritionRepositoryInterface
	logger *zap.Logger
}

// NewNutritionService creates a new NutritionService
func NewNutritionService(meals NutritionRepositoryInterface, logger *zap.Logger) *NutritionService {
	return &NutritionService{
		meals:  meals,
		logger: logger,
	}
}

// LogMeal records a meal. The macro totals are recomputed from the
// individual foods, overriding whatever the caller supplied.
func (s *NutritionService) LogMeal(ctx context.Context, userID string, meal *model.MealLog) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !meal.MealType.Valid() {
		return fmt.Errorf("invalid meal type: %s", meal.MealType)
	}
	if len(meal.Foods) == 0 {
		return fmt.Errorf("at least one food is required")
	}
	for _, food := range meal.Foods {
		if food.Name == "" {
			return fmt.Errorf("food name is required")
		}
	}

	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	meal.UserID = userID
	if meal.Date.IsZero() {
		meal.Date = time.Now()
	}
	meal.CreatedAt = time.Now()

	meal.TotalCalories = 0
	meal.TotalProtein = 0
	meal.TotalCarbs = 0
	meal.TotalFat = 0
	meal.TotalFiber = 0
	for _, food := range meal.Foods {
		meal.TotalCalories += food.Calories
		meal.TotalProtein += food.Protein
		meal.TotalCarbs += food.Carbs
		meal.TotalFat += food.Fat
		if food.Fiber != nil {
			meal.TotalFiber += *food.Fiber
		}
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		s.logger.Error("failed to log meal",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to log meal: %w", err)
	}

	s.logger.Info("meal logged",
		zap.String("meal_id", meal.ID),
		zap.String("user_id", userID),
		zap.String("meal_type", string(meal.MealType)),
		zap.Float64("total_calories", meal.TotalCalories),
	)

	return nil
}

// ListMeals retrieves meal logs for a user, newest first
func (s *NutritionService) ListMeals(ctx context.Context, userID string, from, to time.Time) ([]model.MealLog, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("invalid date range: start is after end")
	}

	meals, err := s.meals.FindByUserID(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal logs: %w", err)
	}

	return meals, nil
}

// DailyNutrition aggregates the macro totals of one calendar day
type DailyNutrition struct {
	Date          time.Time `json:"date"`
	MealsLogged   int       `json:"meals_logged"`
	TotalCalories float64   `json:"total_calories"`
	TotalProtein  float64   `json:"total_protein"`
	TotalCarbs    float64   `json:"total_carbs"`
	TotalFat      float64   `json:"total_fat"`
	TotalFiber    float64   `json:"total_fiber"`
}

// DailySummary sums the macro totals of every meal logged on the day
// containing the given time.
func (s *NutritionService) DailySummary(ctx context.Context, userID string, day time.Time) (*DailyNutrition, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)

	meals, err := s.meals.FindByUserID(ctx, userID, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal logs: %w", err)
	}

	summary := &DailyNutrition{Date: startOfDay, MealsLogged: len(meals)}
	for _, meal := range meals {
		summary.TotalCalories += meal.TotalCalories
		summary.TotalProtein += meal.TotalProtein
		summary.TotalCarbs += meal.TotalCarbs
		summary.TotalFat += meal.TotalFat
		summary.TotalFiber += meal.TotalFiber
	}

	return summary, nil
}

// DeleteMeal deletes a meal log
func (s *NutritionService) DeleteMeal(ctx context.Context, mealID string) error {
	if mealID == "" {
		return fmt.Errorf("meal ID is required")
	}

	if err := s.meals.Delete(ctx, mealID); err != nil {
		s.logger.Error("failed to delete meal log",
			zap.Error(err),
			zap.String("meal_id", mealID),
		)
		return fmt.Errorf("failed to delete meal log: %w", err)
	}

	s.logger.Info("meal log deleted",
		zap.String("meal_id", mealID),
	)

	return nil
}
