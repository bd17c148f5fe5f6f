package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator generates treatment progress reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation
type ReportData struct {
	UserName  string
	DateRange string
	Schedule  *model.ScheduleConfig
	Doses     []model.DoseEvent
	Adherence *model.AdherenceSummary
	Snapshots []model.MedicationLevelSnapshot
	Checkups  []model.WeeklyCheckupRecord
	Weights   []model.WeightEntry
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating progress report",
		zap.String("user_name", data.UserName),
		zap.String("date_range", data.DateRange),
	)

	// Create new PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add page
	pdf.AddPage()

	// Add title
	g.addTitle(pdf, "Treatment Progress Report", data.UserName, data.DateRange)

	// Add all sections
	g.addCurrentSchedule(pdf, data.Schedule)
	g.addAdherenceSummary(pdf, data.Adherence)
	g.addDoseHistory(pdf, data.Doses)
	g.addLevelHistory(pdf, data.Snapshots)
	g.addWeightProgress(pdf, data.Weights)
	g.addCheckupSummaries(pdf, data.Checkups)

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("progress report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userName, dateRange string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Patient: %s", userName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", dateRange), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addCurrentSchedule adds the current dosing schedule section
func (g *PDFGenerator) addCurrentSchedule(pdf *gofpdf.Fpdf, schedule *model.ScheduleConfig) {
	g.addSectionHeader(pdf, "Current Dosing Schedule")

	if schedule == nil {
		pdf.CellFormat(0, 8, "No active schedule configured.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, string(schedule.Medication), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("  Dosage: %s", schedule.Dosage), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  Frequency: %s", schedule.Frequency), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  Started: %s", schedule.StartDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	if schedule.EndDate != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("  Ends: %s", schedule.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addAdherenceSummary adds the adherence summary section
func (g *PDFGenerator) addAdherenceSummary(pdf *gofpdf.Fpdf, adherence *model.AdherenceSummary) {
	g.addSectionHeader(pdf, "Adherence Summary")

	if adherence == nil {
		pdf.CellFormat(0, 8, "No adherence data available.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.CellFormat(0, 6, fmt.Sprintf("Adherence: %d%%", adherence.AdherencePercentage), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Doses taken: %d of %d scheduled", adherence.TotalTakenDoses, adherence.TotalScheduledDoses), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Missed doses: %d", adherence.TotalMissedDoses), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Current streak: %d doses", adherence.CurrentStreak), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Longest streak: %d doses", adherence.LongestStreak), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addDoseHistory adds the dose history section
func (g *PDFGenerator) addDoseHistory(pdf *gofpdf.Fpdf, doses []model.DoseEvent) {
	g.addSectionHeader(pdf, "Injection History")

	if len(doses) == 0 {
		pdf.CellFormat(0, 8, "No injections recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, dose := range doses {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, dose.Date.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s %s, %s", dose.Medication, dose.Dosage, dose.InjectionSite), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Pain level: %d/10", dose.PainLevel), "", 1, "L", false, 0, "")
		if len(dose.SideEffects) > 0 {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Side effects: %s", strings.Join(dose.SideEffects, ", ")), "", 1, "L", false, 0, "")
		}
		if dose.Notes != nil && *dose.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", *dose.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addLevelHistory adds the medication level history section
func (g *PDFGenerator) addLevelHistory(pdf *gofpdf.Fpdf, snapshots []model.MedicationLevelSnapshot) {
	g.addSectionHeader(pdf, "Medication Level History")

	if len(snapshots) == 0 {
		pdf.CellFormat(0, 8, "No level history recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, snap := range snapshots {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  %.1f%% of peak (%s)",
			snap.Date.Format("2006-01-02 15:04"), snap.CalculatedLevel, snap.Status), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addWeightProgress adds the weight progress section
func (g *PDFGenerator) addWeightProgress(pdf *gofpdf.Fpdf, weights []model.WeightEntry) {
	g.addSectionHeader(pdf, "Weight Progress")

	if len(weights) == 0 {
		pdf.CellFormat(0, 8, "No weight entries recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	// entries come newest first; report change over the period
	latest := weights[0]
	earliest := weights[len(weights)-1]
	if latest.Unit == earliest.Unit && len(weights) > 1 {
		change := latest.Weight - earliest.Weight
		pdf.CellFormat(0, 6, fmt.Sprintf("Change over period: %+.1f %s", change, latest.Unit), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	for _, entry := range weights {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  %.1f %s",
			entry.Date.Format("2006-01-02"), entry.Weight, entry.Unit), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addCheckupSummaries adds the weekly checkup section
func (g *PDFGenerator) addCheckupSummaries(pdf *gofpdf.Fpdf, checkups []model.WeeklyCheckupRecord) {
	g.addSectionHeader(pdf, "Weekly Checkups")

	if len(checkups) == 0 {
		pdf.CellFormat(0, 8, "No checkups recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, checkup := range checkups {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, checkup.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Weight: %.1f %s", checkup.CurrentWeight, checkup.WeightUnit), "", 1, "L", false, 0, "")
		if checkup.WeightChange != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Change since last checkup: %+.1f %s", *checkup.WeightChange, checkup.WeightUnit), "", 1, "L", false, 0, "")
		}
		if len(checkup.SideEffects) > 0 {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Side effects: %s (severity %d/10)",
				strings.Join(checkup.SideEffects, ", "), checkup.OverallSeverity), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  Recommendation: %s (%s confidence)",
			checkup.Recommendation, checkup.Confidence.ConfidenceLevel), "", 1, "L", false, 0, "")
		if checkup.RecommendationReason != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Reason: %s", checkup.RecommendationReason), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}
