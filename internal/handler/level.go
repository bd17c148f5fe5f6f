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

// LevelHandler implements medication level API endpoints
type LevelHandler struct {
	service *service.LevelService
	logger  *zap.Logger
}

// NewLevelHandler creates a new LevelHandler
func NewLevelHandler(service *service.LevelService, logger *zap.Logger) *LevelHandler {
	return &LevelHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1MedicationLevel estimates the user's current medication level
func (h *LevelHandler) GetApiV1MedicationLevel(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := parseFlexibleTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid at parameter",
				Details: stringPtr(err.Error()),
			})
			return
		}
		at = parsed
	}

	result, err := h.service.LevelAt(c.Request.Context(), userID, at)
	if err != nil {
		h.logger.Error("failed to estimate medication level",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to estimate medication level",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PostApiV1MedicationLevelCalculate estimates a level for explicit inputs
func (h *LevelHandler) PostApiV1MedicationLevelCalculate(c *gin.Context) {
	var req api.CalculateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	estimate, err := h.service.Calculate(
		model.Medication(req.Medication),
		model.Frequency(req.Frequency),
		req.CustomInterval,
		req.LastDoseDate,
		at,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// GetApiV1MedicationLevelHistory retrieves stored level snapshots
func (h *LevelHandler) GetApiV1MedicationLevelHistory(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid limit: must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	snapshots, err := h.service.History(c.Request.Context(), userID, from, to, limit)
	if err != nil {
		h.logger.Error("failed to load level history",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load level history",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if snapshots == nil {
		snapshots = []model.MedicationLevelSnapshot{}
	}

	c.JSON(http.StatusOK, snapshots)
}

// PostApiV1MedicationLevelSnapshot records the current level in history
func (h *LevelHandler) PostApiV1MedicationLevelSnapshot(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	snap, err := h.service.SnapshotNow(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to record level snapshot",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to record level snapshot",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "No doses logged yet",
		})
		return
	}

	c.JSON(http.StatusCreated, snap)
}
