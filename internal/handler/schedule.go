package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ScheduleHandler implements dosing schedule API endpoints
type ScheduleHandler struct {
	service *service.ScheduleService
	logger  *zap.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(service *service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger,
	}
}

// PutApiV1Schedule creates or updates the user's dosing schedule
func (h *ScheduleHandler) PutApiV1Schedule(c *gin.Context) {
	var req api.UpsertScheduleRequest
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

	sched := &model.ScheduleConfig{
		Medication:     model.Medication(req.Medication),
		Dosage:         model.Dosage(req.Dosage),
		Frequency:      model.Frequency(req.Frequency),
		CustomInterval: req.CustomInterval,
		PreferredTime:  req.PreferredTime,
		SpecificTime:   req.SpecificTime,
		StartDate:      dateToTime(req.StartDate),
	}
	if req.TimeZone != nil {
		sched.TimeZone = *req.TimeZone
	}
	if req.EndDate != nil {
		endDate := dateToTime(*req.EndDate)
		sched.EndDate = &endDate
	}
	if req.Reminders != nil {
		sched.Reminders = model.ReminderSettings{
			Enabled:           req.Reminders.Enabled,
			PreDoseHours:      req.Reminders.PreDoseHours,
			PostDoseHours:     req.Reminders.PostDoseHours,
			MissedDoseHours:   req.Reminders.MissedDoseHours,
			EscalationEnabled: req.Reminders.EscalationEnabled,
		}
	}

	result, err := h.service.UpsertSchedule(c.Request.Context(), userID, sched)
	if err != nil {
		h.logger.Error("failed to upsert schedule",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("schedule upserted",
		zap.String("schedule_id", result.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusOK, result)
}

// GetApiV1Schedule retrieves the user's active schedule
func (h *ScheduleHandler) GetApiV1Schedule(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	sched, err := h.service.GetSchedule(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get schedule",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get schedule",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if sched == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "No active schedule",
		})
		return
	}

	c.JSON(http.StatusOK, sched)
}

// GetApiV1ScheduleAdherence recomputes adherence over a date range
func (h *ScheduleHandler) GetApiV1ScheduleAdherence(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	report, err := h.service.Adherence(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to compute adherence",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetApiV1ScheduleCalendar projects the schedule over a month
func (h *ScheduleHandler) GetApiV1ScheduleCalendar(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid year parameter",
			})
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid month parameter: must be 1-12",
			})
			return
		}
		month = time.Month(parsed)
	}

	entries, err := h.service.Calendar(c.Request.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("failed to build schedule calendar",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":    year,
		"month":   int(month),
		"entries": entries,
	})
}
