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

// CheckupHandler implements weekly checkup API endpoints
type CheckupHandler struct {
	service *service.CheckupService
	logger  *zap.Logger
}

// NewCheckupHandler creates a new CheckupHandler
func NewCheckupHandler(service *service.CheckupService, logger *zap.Logger) *CheckupHandler {
	return &CheckupHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1Checkups records a weekly checkup
func (h *CheckupHandler) PostApiV1Checkups(c *gin.Context) {
	var req api.RecordCheckupRequest
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

	checkup := &model.WeeklyCheckupRecord{
		CurrentWeight:        req.CurrentWeight,
		WeightUnit:           req.WeightUnit,
		OverallSeverity:      req.OverallSeverity,
		Recommendation:       model.DosageRecommendation(req.Recommendation),
		RecommendationReason: req.RecommendationReason,
		Notes:                req.Notes,
		Confidence: model.ConfidenceFactors{
			PriorProbability:     req.Confidence.PriorProbability,
			Likelihood:           req.Confidence.Likelihood,
			PosteriorProbability: req.Confidence.PosteriorProbability,
			ConfidenceLevel:      model.ConfidenceLevel(req.Confidence.ConfidenceLevel),
		},
	}
	if req.Date != nil {
		checkup.Date = *req.Date
	}
	if req.SideEffects != nil {
		checkup.SideEffects = *req.SideEffects
	}
	if req.Confidence.IndividualFactors != nil {
		checkup.Confidence.IndividualFactors = *req.Confidence.IndividualFactors
	}

	if err := h.service.RecordCheckup(c.Request.Context(), userID, checkup); err != nil {
		h.logger.Error("failed to record checkup",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("checkup recorded",
		zap.String("checkup_id", checkup.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusCreated, checkup)
}

// GetApiV1Checkups lists the user's checkups
func (h *CheckupHandler) GetApiV1Checkups(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	checkups, err := h.service.ListCheckups(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list checkups",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list checkups",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if checkups == nil {
		checkups = []model.WeeklyCheckupRecord{}
	}

	c.JSON(http.StatusOK, checkups)
}

// GetApiV1CheckupsLatest retrieves the user's most recent checkup
func (h *CheckupHandler) GetApiV1CheckupsLatest(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	checkup, err := h.service.LatestCheckup(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get latest checkup",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get latest checkup",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if checkup == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "No checkups recorded yet",
		})
		return
	}

	c.JSON(http.StatusOK, checkup)
}

// GetApiV1CheckupsAnalytics summarizes the user's checkup history
func (h *CheckupHandler) GetApiV1CheckupsAnalytics(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	analytics, err := h.service.Analytics(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute checkup analytics",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute checkup analytics",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// PutApiV1CheckupsId updates an existing checkup
func (h *CheckupHandler) PutApiV1CheckupsId(c *gin.Context) {
	checkupID, ok := h.checkupIDFromPath(c)
	if !ok {
		return
	}

	var req api.RecordCheckupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	checkup := &model.WeeklyCheckupRecord{
		CurrentWeight:        req.CurrentWeight,
		WeightUnit:           req.WeightUnit,
		OverallSeverity:      req.OverallSeverity,
		Recommendation:       model.DosageRecommendation(req.Recommendation),
		RecommendationReason: req.RecommendationReason,
		Notes:                req.Notes,
		Confidence: model.ConfidenceFactors{
			PriorProbability:     req.Confidence.PriorProbability,
			Likelihood:           req.Confidence.Likelihood,
			PosteriorProbability: req.Confidence.PosteriorProbability,
			ConfidenceLevel:      model.ConfidenceLevel(req.Confidence.ConfidenceLevel),
		},
	}
	if req.Date != nil {
		checkup.Date = *req.Date
	}
	if req.SideEffects != nil {
		checkup.SideEffects = *req.SideEffects
	}
	if req.Confidence.IndividualFactors != nil {
		checkup.Confidence.IndividualFactors = *req.Confidence.IndividualFactors
	}

	updated, err := h.service.UpdateCheckup(c.Request.Context(), checkupID, checkup)
	if err != nil {
		h.logger.Error("failed to update checkup",
			zap.Error(err),
			zap.String("checkup_id", checkupID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetApiV1CheckupsId retrieves a single checkup
func (h *CheckupHandler) GetApiV1CheckupsId(c *gin.Context) {
	checkupID, ok := h.checkupIDFromPath(c)
	if !ok {
		return
	}

	checkup, err := h.service.GetCheckup(c.Request.Context(), checkupID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Checkup not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, checkup)
}

// DeleteApiV1CheckupsId deletes a checkup
func (h *CheckupHandler) DeleteApiV1CheckupsId(c *gin.Context) {
	checkupID, ok := h.checkupIDFromPath(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCheckup(c.Request.Context(), checkupID); err != nil {
		h.logger.Error("failed to delete checkup",
			zap.Error(err),
			zap.String("checkup_id", checkupID),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Checkup not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CheckupHandler) checkupIDFromPath(c *gin.Context) (string, bool) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid checkup ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return "", false
	}
	return parsed.String(), true
}
