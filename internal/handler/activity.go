package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ActivityHandler implements workout logging API endpoints
type ActivityHandler struct {
	service *service.ActivityService
	logger  *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1ActivityWorkouts logs a workout session
func (h *ActivityHandler) PostApiV1ActivityWorkouts(c *gin.Context) {
	var req api.LogWorkoutRequest
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

	workout := &model.WorkoutLog{
		Type:            model.WorkoutType(req.Type),
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
	}
	if req.Date != nil {
		workout.Date = *req.Date
	}

	if err := h.service.LogWorkout(c.Request.Context(), userID, workout); err != nil {
		h.logger.Error("failed to log workout",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, workout)
}

// GetApiV1ActivityWorkouts lists workout logs
func (h *ActivityHandler) GetApiV1ActivityWorkouts(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	workouts, err := h.service.ListWorkouts(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to list workout logs",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list workout logs",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if workouts == nil {
		workouts = []model.WorkoutLog{}
	}

	c.JSON(http.StatusOK, workouts)
}

// GetApiV1ActivitySummary aggregates workout history
func (h *ActivityHandler) GetApiV1ActivitySummary(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to compute activity summary",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute activity summary",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteApiV1ActivityWorkoutsId deletes a workout log
func (h *ActivityHandler) DeleteApiV1ActivityWorkoutsId(c *gin.Context) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid workout ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.DeleteWorkout(c.Request.Context(), parsed.String()); err != nil {
		h.logger.Error("failed to delete workout log",
			zap.Error(err),
			zap.String("workout_id", parsed.String()),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Workout log not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
