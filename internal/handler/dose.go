package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// DoseHandler implements dose logging API endpoints
type DoseHandler struct {
	service *service.DoseService
	logger  *zap.Logger
}

// NewDoseHandler creates a new DoseHandler
func NewDoseHandler(service *service.DoseService, logger *zap.Logger) *DoseHandler {
	return &DoseHandler{
		service: service,
		logger:  logger,
	}
}

func doseFromRequest(medication, dosage, site string, painLevel int, date *time.Time, sideEffects *[]string, notes *string) *model.DoseEvent {
	dose := &model.DoseEvent{
		Medication:    model.Medication(medication),
		Dosage:        model.Dosage(dosage),
		InjectionSite: model.InjectionSite(site),
		PainLevel:     painLevel,
		Notes:         notes,
	}
	if date != nil {
		dose.Date = *date
	}
	if sideEffects != nil {
		dose.SideEffects = *sideEffects
	}
	return dose
}

// PostApiV1Doses logs a new injection
func (h *DoseHandler) PostApiV1Doses(c *gin.Context) {
	var req api.LogDoseRequest
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
	dose := doseFromRequest(req.Medication, req.Dosage, req.InjectionSite, req.PainLevel, req.Date, req.SideEffects, req.Notes)

	if err := h.service.LogDose(c.Request.Context(), userID, dose); err != nil {
		h.logger.Error("failed to log dose",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("dose logged",
		zap.String("dose_id", dose.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusCreated, dose)
}

// GetApiV1Doses lists a user's dose history
func (h *DoseHandler) GetApiV1Doses(c *gin.Context) {
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

	doses, err := h.service.ListDoses(c.Request.Context(), userID, from, to, limit)
	if err != nil {
		h.logger.Error("failed to list doses",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list doses",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if doses == nil {
		doses = []model.DoseEvent{}
	}

	c.JSON(http.StatusOK, doses)
}

// GetApiV1DosesLatest retrieves the user's most recent dose
func (h *DoseHandler) GetApiV1DosesLatest(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	dose, err := h.service.LatestDose(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get latest dose",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get latest dose",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if dose == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "No doses logged yet",
		})
		return
	}

	c.JSON(http.StatusOK, dose)
}

// GetApiV1DosesNext reports when the next dose is due
func (h *DoseHandler) GetApiV1DosesNext(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	info, err := h.service.NextDose(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute next dose",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute next dose",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if info == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "No doses logged yet",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetApiV1DosesStats returns aggregate dose statistics
func (h *DoseHandler) GetApiV1DosesStats(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute dose stats",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute dose stats",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetApiV1DosesSiteRecommendations suggests injection sites to rotate to
func (h *DoseHandler) GetApiV1DosesSiteRecommendations(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	sites, err := h.service.RecommendSites(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to recommend injection sites",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to recommend injection sites",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommended_sites": sites})
}

// GetApiV1DosesId retrieves a single dose event
func (h *DoseHandler) GetApiV1DosesId(c *gin.Context) {
	doseID, ok := h.doseIDFromPath(c)
	if !ok {
		return
	}

	dose, err := h.service.GetDose(c.Request.Context(), doseID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Dose not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, dose)
}

// PutApiV1DosesId updates a dose event
func (h *DoseHandler) PutApiV1DosesId(c *gin.Context) {
	doseID, ok := h.doseIDFromPath(c)
	if !ok {
		return
	}

	var req api.UpdateDoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	updates := doseFromRequest(req.Medication, req.Dosage, req.InjectionSite, req.PainLevel, req.Date, req.SideEffects, req.Notes)

	if err := h.service.UpdateDose(c.Request.Context(), doseID, updates); err != nil {
		h.logger.Error("failed to update dose",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("dose updated",
		zap.String("dose_id", doseID),
	)

	c.JSON(http.StatusOK, updates)
}

// DeleteApiV1DosesId deletes a dose event
func (h *DoseHandler) DeleteApiV1DosesId(c *gin.Context) {
	doseID, ok := h.doseIDFromPath(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDose(c.Request.Context(), doseID); err != nil {
		h.logger.Error("failed to delete dose",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Dose not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("dose deleted",
		zap.String("dose_id", doseID),
	)

	c.Status(http.StatusNoContent)
}

// PostApiV1DosesIdPhoto attaches an injection site photo to a dose
func (h *DoseHandler) PostApiV1DosesIdPhoto(c *gin.Context) {
	doseID, ok := h.doseIDFromPath(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Missing photo form file",
			Details: stringPtr(err.Error()),
		})
		return
	}

	stream, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Failed to open uploaded photo",
			Details: stringPtr(err.Error()),
		})
		return
	}
	defer stream.Close()

	blobName, err := h.service.AttachPhoto(c.Request.Context(), doseID, file.Filename, stream)
	if err != nil {
		h.logger.Error("failed to attach dose photo",
			zap.Error(err),
			zap.String("dose_id", doseID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to attach photo",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_path": blobName})
}

// GetApiV1DosesIdPhoto downloads the photo attached to a dose
func (h *DoseHandler) GetApiV1DosesIdPhoto(c *gin.Context) {
	doseID, ok := h.doseIDFromPath(c)
	if !ok {
		return
	}

	photo, err := h.service.GetPhoto(c.Request.Context(), doseID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Photo not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", photo)
}

func (h *DoseHandler) doseIDFromPath(c *gin.Context) (string, bool) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid dose ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return "", false
	}
	return parsed.String(), true
}
