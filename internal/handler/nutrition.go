package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// NutritionHandler implements meal logging API endpoints
type NutritionHandler struct {
	service *service.NutritionService
	logger  *zap.Logger
}

// NewNutritionHandler creates a new NutritionHandler
func NewNutritionHandler(service *service.NutritionService, logger *zap.Logger) *NutritionHandler {
	return &NutritionHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1NutritionMeals logs a meal
func (h *NutritionHandler) PostApiV1NutritionMeals(c *gin.Context) {
	var req api.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	userID := uuidToString(req.UserId)

	foods := make([]model.FoodItem, 0, len(req.Foods))
	for _, f := range req.Foods {
		foods = append(foods, model.FoodItem{
			Name:     f.Name,
			Portion:  f.Portion,
			Calories: f.Calories,
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fat:      f.Fat,
			Fiber:    f.Fiber,
		})
	}

	meal := &model.MealLog{
		MealType: model.MealType(req.MealType),
		Foods:    foods,
		Notes:    req.Notes,
	}
	if req.Date != nil {
		meal.Date = *req.Date
	}

	if err := h.service.LogMeal(c.Request.Context(), userID, meal); err != nil {
		h.logger.Error("failed to log meal",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, meal)
}

// GetApiV1NutritionMeals lists meal logs
func (h *NutritionHandler) GetApiV1NutritionMeals(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	meals, err := h.service.ListMeals(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to list meal logs",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list meal logs",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if meals == nil {
		meals = []model.MealLog{}
	}

	c.JSON(http.StatusOK, meals)
}

// GetApiV1NutritionDaily summarizes one day's macro totals
func (h *NutritionHandler) GetApiV1NutritionDaily(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseFlexibleTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid date parameter",
				Details: stringPtr(err.Error()),
			})
			return
		}
		day = parsed
	}

	summary, err := h.service.DailySummary(c.Request.Context(), userID, day)
	if err != nil {
		h.logger.Error("failed to compute daily nutrition summary",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute daily nutrition summary",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteApiV1NutritionMealsId deletes a meal log
func (h *NutritionHandler) DeleteApiV1NutritionMealsId(c *gin.Context) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid meal ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.DeleteMeal(c.Request.Context(), parsed.String()); err != nil {
		h.logger.Error("failed to delete meal log",
			zap.Error(err),
			zap.String("meal_id", parsed.String()),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Meal log not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
