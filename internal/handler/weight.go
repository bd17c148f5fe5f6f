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

// WeightHandler implements weight tracking API endpoints
type WeightHandler struct {
	service *service.WeightService
	logger  *zap.Logger
}

// NewWeightHandler creates a new WeightHandler
func NewWeightHandler(service *service.WeightService, logger *zap.Logger) *WeightHandler {
	return &WeightHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1Weight logs a weight measurement
func (h *WeightHandler) PostApiV1Weight(c *gin.Context) {
	var req api.LogWeightRequest
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

	entry := &model.WeightEntry{
		Weight: req.Weight,
		Unit:   req.Unit,
		Notes:  req.Notes,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}

	if err := h.service.LogWeight(c.Request.Context(), userID, entry); err != nil {
		h.logger.Error("failed to log weight",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("weight logged",
		zap.String("entry_id", entry.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusCreated, entry)
}

// GetApiV1Weight lists weight entries
func (h *WeightHandler) GetApiV1Weight(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	from, to, ok := timeRangeFromQuery(c)
	if !ok {
		return
	}

	entries, err := h.service.ListWeights(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to list weight entries",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list weight entries",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if entries == nil {
		entries = []model.WeightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetApiV1WeightProgress summarizes weight change from baseline
func (h *WeightHandler) GetApiV1WeightProgress(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	progress, err := h.service.Progress(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute weight progress",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute weight progress",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, progress)
}

// DeleteApiV1WeightId deletes a weight entry
func (h *WeightHandler) DeleteApiV1WeightId(c *gin.Context) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid entry ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.DeleteWeight(c.Request.Context(), parsed.String()); err != nil {
		h.logger.Error("failed to delete weight entry",
			zap.Error(err),
			zap.String("entry_id", parsed.String()),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Weight entry not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
