package pdf

import (
	"testing"
	"time"

	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPDFGenerator_Generate_Success(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	notes := "Slight redness at the site"
	weightChange := -0.8

	reportData := &ReportData{
		UserName:  "Test User",
		DateRange: "2024-01-01 to 2024-01-31",
		Schedule: &model.ScheduleConfig{
			ID:         "schedule-1",
			UserID:     "user-1",
			Medication: model.MedicationOzempic,
			Dosage:     model.Dosage05,
			Frequency:  model.FrequencyWeekly,
			Active:     true,
			StartDate:  time.Now().AddDate(0, -2, 0),
		},
		Doses: []model.DoseEvent{
			{
				ID:            "dose-1",
				UserID:        "user-1",
				Date:          time.Now().AddDate(0, 0, -1),
				Medication:    model.MedicationOzempic,
				Dosage:        model.Dosage05,
				InjectionSite: model.SiteLeftThigh,
				PainLevel:     3,
				SideEffects:   []string{"nausea"},
				Notes:         &notes,
			},
		},
		Adherence: &model.AdherenceSummary{
			TotalScheduledDoses: 4,
			TotalTakenDoses:     4,
			CurrentStreak:       4,
			LongestStreak:       4,
			AdherencePercentage: 100,
			LastCalculated:      time.Now(),
		},
		Snapshots: []model.MedicationLevelSnapshot{
			{
				ID:               "snap-1",
				UserID:           "user-1",
				Date:             time.Now().AddDate(0, 0, -2),
				Medication:       model.MedicationOzempic,
				Dosage:           model.Dosage05,
				CalculatedLevel:  82.4,
				PercentageOfPeak: 82.4,
				Status:           model.LevelOptimal,
			},
		},
		Checkups: []model.WeeklyCheckupRecord{
			{
				ID:                   "checkup-1",
				UserID:               "user-1",
				Date:                 time.Now().AddDate(0, 0, -3),
				CurrentWeight:        84.2,
				WeightUnit:           "kg",
				WeightChange:         &weightChange,
				SideEffects:          []string{"nausea", "fatigue"},
				OverallSeverity:      3,
				Recommendation:       model.RecommendContinue,
				RecommendationReason: "Side effects are mild and weight trend is on track",
				Confidence: model.ConfidenceFactors{
					PriorProbability:     0.6,
					Likelihood:           0.8,
					PosteriorProbability: 0.75,
					ConfidenceLevel:      model.ConfidenceHigh,
				},
			},
		},
		Weights: []model.WeightEntry{
			{
				ID:     "weight-1",
				UserID: "user-1",
				Date:   time.Now().AddDate(0, 0, -1),
				Weight: 84.2,
				Unit:   "kg",
			},
			{
				ID:     "weight-2",
				UserID: "user-1",
				Date:   time.Now().AddDate(0, 0, -8),
				Weight: 85.0,
				Unit:   "kg",
			},
		},
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_EmptyData(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	reportData := &ReportData{
		UserName:  "Test User",
		DateRange: "2024-01-01 to 2024-01-31",
		Doses:     []model.DoseEvent{},
		Snapshots: []model.MedicationLevelSnapshot{},
		Checkups:  []model.WeeklyCheckupRecord{},
		Weights:   []model.WeightEntry{},
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content even with empty data")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_WithMultipleDoses(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	doses := make([]model.DoseEvent, 0, 8)
	sites := []model.InjectionSite{
		model.SiteLeftThigh, model.SiteRightThigh,
		model.SiteLeftAbdomen, model.SiteRightAbdomen,
	}
	for i := 0; i < 8; i++ {
		doses = append(doses, model.DoseEvent{
			ID:            "dose-" + string(rune('a'+i)),
			UserID:        "user-1",
			Date:          time.Now().AddDate(0, 0, -7*i),
			Medication:    model.MedicationMounjaro,
			Dosage:        model.Dosage05,
			InjectionSite: sites[i%len(sites)],
			PainLevel:     i % 5,
		})
	}

	reportData := &ReportData{
		UserName:  "Test User",
		DateRange: "2024-01-01 to 2024-03-01",
		Doses:     doses,
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_WeightChangeOverPeriod(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	reportData := &ReportData{
		UserName:  "Test User",
		DateRange: "2024-01-01 to 2024-01-31",
		Weights: []model.WeightEntry{
			{ID: "w-1", UserID: "user-1", Date: time.Now().AddDate(0, 0, -1), Weight: 82.0, Unit: "kg"},
			{ID: "w-2", UserID: "user-1", Date: time.Now().AddDate(0, 0, -15), Weight: 83.5, Unit: "kg"},
			{ID: "w-3", UserID: "user-1", Date: time.Now().AddDate(0, 0, -29), Weight: 85.0, Unit: "kg"},
		},
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}
