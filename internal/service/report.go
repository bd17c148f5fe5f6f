package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/azure"
	"github.com/semaglide/backend/internal/pdf"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// ReportRepositoryInterface defines report persistence operations
type ReportRepositoryInterface interface {
	Create(ctx context.Context, report *model.Report) error
	FindByUserID(ctx context.Context, userID string) ([]model.Report, error)
	FindByID(ctx context.Context, reportID string) (*model.Report, error)
}

// CheckupReaderInterface reads weekly checkups for report assembly
type CheckupReaderInterface interface {
	FindByUserID(ctx context.Context, userID string) ([]model.WeeklyCheckupRecord, error)
}

// WeightReaderInterface reads weight entries for report assembly
type WeightReaderInterface interface {
	FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WeightEntry, error)
}

// SnapshotReaderInterface reads level snapshots for report assembly
type SnapshotReaderInterface interface {
	FindByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]model.MedicationLevelSnapshot, error)
}

// ReportService manages progress report generation
type ReportService struct {
	reports   ReportRepositoryInterface
	doses     DoseRepositoryInterface
	schedules ScheduleReaderInterface
	snapshots SnapshotReaderInterface
	checkups  CheckupReaderInterface
	weights   WeightReaderInterface
	blob      azure.BlobStorage
	pdfGen    *pdf.PDFGenerator
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reports ReportRepositoryInterface,
	doses DoseRepositoryInterface,
	schedules ScheduleReaderInterface,
	snapshots SnapshotReaderInterface,
	checkups CheckupReaderInterface,
	weights WeightReaderInterface,
	blob azure.BlobStorage,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:   reports,
		doses:     doses,
		schedules: schedules,
		snapshots: snapshots,
		checkups:  checkups,
		weights:   weights,
		blob:      blob,
		pdfGen:    pdfGen,
		logger:    logger,
	}
}

// GenerateReport assembles a progress report for the period, renders it
// as a PDF, uploads it to blob storage and records it
func (s *ReportService) GenerateReport(ctx context.Context, userID, userName string, startDate, endDate time.Time) (string, error) {
	if endDate.Before(startDate) {
		return "", fmt.Errorf("end date must not be before start date")
	}

	s.logger.Info("generating progress report",
		zap.String("user_id", userID),
		zap.Time("start_date", startDate),
		zap.Time("end_date", endDate),
	)

	// Generate report ID
	reportID := uuid.New().String()

	// Fetch all required data
	doses, err := s.doses.FindByUserID(ctx, userID, startDate, endDate, 0)
	if err != nil {
		s.logger.Error("failed to get doses for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return "", fmt.Errorf("failed to get doses: %w", err)
	}

	schedule, err := s.schedules.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get active schedule for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return "", fmt.Errorf("failed to get active schedule: %w", err)
	}

	snapshots, err := s.snapshots.FindByUserID(ctx, userID, startDate, endDate, 0)
	if err != nil {
		s.logger.Error("failed to get level snapshots for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return "", fmt.Errorf("failed to get level snapshots: %w", err)
	}

	checkups, err := s.checkups.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get checkups for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return "", fmt.Errorf("failed to get checkups: %w", err)
	}
	checkups = filterCheckupsByDate(checkups, startDate, endDate)

	weights, err := s.weights.FindByUserID(ctx, userID, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to get weight entries for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return "", fmt.Errorf("failed to get weight entries: %w", err)
	}

	// Prepare report data
	dateRange := fmt.Sprintf("%s to %s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	reportData := &pdf.ReportData{
		UserName:  userName,
		DateRange: dateRange,
		Schedule:  schedule,
		Doses:     doses,
		Snapshots: snapshots,
		Checkups:  checkups,
		Weights:   weights,
	}
	if schedule != nil {
		reportData.Adherence = &schedule.Adherence
	}

	// Generate PDF
	pdfBytes, err := s.pdfGen.Generate(reportData)
	if err != nil {
		s.logger.Error("failed to generate PDF",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("failed to generate PDF: %w", err)
	}

	// Upload to blob storage
	filename := fmt.Sprintf("%s_%s.pdf", reportID, time.Now().Format("20060102"))
	blobPath, err := s.blob.UploadPDF(ctx, filename, pdfBytes)
	if err != nil {
		s.logger.Error("failed to upload PDF to blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("failed to upload PDF: %w", err)
	}

	// Create report record in database
	report := &model.Report{
		ID:             reportID,
		UserID:         userID,
		DateRangeStart: startDate,
		DateRangeEnd:   endDate,
		FilePath:       blobPath,
		GeneratedAt:    time.Now(),
	}

	err = s.reports.Create(ctx, report)
	if err != nil {
		s.logger.Error("failed to save report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("failed to save report record: %w", err)
	}

	s.logger.Info("progress report generated successfully",
		zap.String("report_id", reportID),
		zap.String("user_id", userID),
		zap.String("blob_path", blobPath),
	)

	return reportID, nil
}

// DownloadReport retrieves a report PDF for download
func (s *ReportService) DownloadReport(ctx context.Context, reportID string) ([]byte, error) {
	s.logger.Info("retrieving report",
		zap.String("report_id", reportID),
	)

	// Get report record from database
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to get report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to get report record: %w", err)
	}

	// Download PDF from blob storage
	pdfBytes, err := s.blob.DownloadPDF(ctx, report.FilePath)
	if err != nil {
		s.logger.Error("failed to download PDF from blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.String("blob_path", report.FilePath),
		)
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}

	s.logger.Info("report retrieved successfully",
		zap.String("report_id", reportID),
		zap.Int("size_bytes", len(pdfBytes)),
	)

	return pdfBytes, nil
}

// ListReports retrieves all reports for a user, newest first
func (s *ReportService) ListReports(ctx context.Context, userID string) ([]model.Report, error) {
	reports, err := s.reports.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get reports for user",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}

	return reports, nil
}

func filterCheckupsByDate(checkups []model.WeeklyCheckupRecord, from, to time.Time) []model.WeeklyCheckupRecord {
	filtered := make([]model.WeeklyCheckupRecord, 0, len(checkups))
	for _, checkup := range checkups {
		if checkup.Date.Before(from) || checkup.Date.After(to) {
			continue
		}
		filtered = append(filtered, checkup)
	}
	return filtered
}
