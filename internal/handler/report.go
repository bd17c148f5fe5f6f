package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ReportHandler implements report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiV1ReportsGenerate generates a treatment progress report
func (h *ReportHandler) PostApiV1ReportsGenerate(c *gin.Context) {
	var req api.GenerateReportRequest
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

	startDate := dateToTime(req.StartDate)
	endDate := dateToTime(req.EndDate)

	if startDate.After(endDate) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Start date must be before or equal to end date",
		})
		return
	}

	userName := "User"
	if req.UserName != nil && *req.UserName != "" {
		userName = *req.UserName
	}

	reportID, err := h.service.GenerateReport(c.Request.Context(), userID, userName, startDate, endDate)
	if err != nil {
		h.logger.Error("failed to generate report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate report",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("report generated",
		zap.String("report_id", reportID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusOK, gin.H{
		"report_id": reportID,
		"message":   "Report generated successfully",
	})
}

// GetApiV1Reports lists generated reports for a user
func (h *ReportHandler) GetApiV1Reports(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	reports, err := h.service.ListReports(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list reports",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list reports",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}

	c.JSON(http.StatusOK, reports)
}

// GetApiV1ReportsIdDownload downloads a report PDF
func (h *ReportHandler) GetApiV1ReportsIdDownload(c *gin.Context) {
	parsed, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid report ID: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return
	}
	reportID := parsed.String()

	pdfBytes, err := h.service.DownloadReport(c.Request.Context(), reportID)
	if err != nil {
		h.logger.Error("failed to download report",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Report not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=progress_report_%s.pdf", reportID))
	c.Header("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)

	h.logger.Info("report downloaded",
		zap.String("report_id", reportID),
		zap.Int("size_bytes", len(pdfBytes)),
	)
}
