package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/internal/repository"
	"github.com/semaglide/backend/internal/service"
	"github.com/semaglide/backend/pkg/api"
	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDoseTrackingIntegration exercises the complete dose tracking flow
// against a real database
func TestDoseTrackingIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	db, cleanup := setupTestDatabase(t, ctx)
	defer cleanup()

	router := newTestRouter(t, db)

	userID := uuid.New()

	t.Run("Complete dose CRUD flow", func(t *testing.T) {
		cleanupUserData(t, ctx, db, userID.String())

		// Step 1: Log a dose with no schedule, weekly fallback applies
		t.Log("Step 1: Logging first dose")
		doseDate := time.Now().Add(-1 * time.Hour)
		dose := logDose(t, router, userID, "Ozempic®", "0.25mg", "Left Thigh", &doseDate)
		require.NotEmpty(t, dose.ID, "Dose ID should not be empty")
		assert.WithinDuration(t, doseDate.AddDate(0, 0, 7), dose.NextDueDate, time.Second,
			"Next due date should be seven days after the dose")

		// Step 2: Latest dose matches what was logged
		t.Log("Step 2: Fetching latest dose")
		latest := getLatestDose(t, router, userID)
		assert.Equal(t, dose.ID, latest.ID, "Latest dose should match the logged dose")
		assert.Equal(t, model.MedicationOzempic, latest.Medication)

		// Step 3: Next dose countdown is in the future
		t.Log("Step 3: Checking next dose countdown")
		next := getNextDose(t, router, userID)
		assert.False(t, next.Overdue, "Fresh dose should not be overdue")
		assert.Greater(t, next.HoursUntilDue, 0.0, "Next dose should be in the future")
		assert.Equal(t, dose.ID, next.LastDoseID)

		// Step 4: Update the dose
		t.Log("Step 4: Updating dose")
		updateDose(t, router, dose.ID, "Ozempic®", "0.25mg", "Right Abdomen", 4)

		updated := getDose(t, router, dose.ID)
		assert.Equal(t, dose.ID, updated.ID, "Dose ID should be preserved")
		assert.Equal(t, model.SiteRightAbdomen, updated.InjectionSite, "Injection site should be updated")
		assert.Equal(t, 4, updated.PainLevel, "Pain level should be updated")

		// Step 5: Delete the dose
		t.Log("Step 5: Deleting dose")
		deleteDose(t, router, dose.ID)

		// Step 6: Verify deletion
		t.Log("Step 6: Verifying deletion")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/"+dose.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "Deleted dose should return 404")
	})

	t.Run("Dose history and statistics", func(t *testing.T) {
		cleanupUserData(t, ctx, db, userID.String())

		// Log four weekly doses across different sites
		sites := []string{"Left Thigh", "Right Thigh", "Left Abdomen", "Right Abdomen"}
		for i, site := range sites {
			date := time.Now().AddDate(0, 0, -7*(len(sites)-1-i))
			logDose(t, router, userID, "Ozempic®", "0.25mg", site, &date)
		}

		// History comes back newest first
		t.Log("Verifying dose history ordering")
		doses := listDoses(t, router, userID)
		require.Len(t, doses, 4, "Should have four doses")
		for i := 0; i < len(doses)-1; i++ {
			assert.False(t, doses[i].Date.Before(doses[i+1].Date),
				"Doses should be sorted newest first")
		}

		// Statistics aggregate the history
		t.Log("Verifying dose statistics")
		stats := getDoseStats(t, router, userID)
		assert.Equal(t, 4, stats.TotalDoses, "Total doses should match")
		assert.Len(t, stats.SiteCounts, 4, "Each site should be counted")

		// Site recommendations exclude the most recent sites
		t.Log("Verifying site rotation recommendations")
		recommended := getSiteRecommendations(t, router, userID)
		require.NotEmpty(t, recommended, "Should recommend at least one site")
		recent := []model.InjectionSite{model.SiteRightAbdomen, model.SiteLeftAbdomen, model.SiteRightThigh}
		for _, site := range recommended {
			assert.NotContains(t, recent, site,
				"Recently used sites should not be recommended")
		}
	})

	t.Run("Medication level estimation", func(t *testing.T) {
		cleanupUserData(t, ctx, db, userID.String())

		// Log a dose exactly one half-life ago
		doseDate := time.Now().Add(-168 * time.Hour)
		logDose(t, router, userID, "Ozempic®", "0.5mg", "Left Arm", &doseDate)

		// Current level should be close to half of peak
		t.Log("Verifying current level estimate")
		result := getCurrentLevel(t, router, userID)
		require.True(t, result.HasData, "Level estimate should have data")
		require.NotNil(t, result.Estimate)
		assert.InDelta(t, 50.0, result.Estimate.Level, 1.0,
			"Level after one half-life should be close to 50 percent")

		// Stateless calculation gives the same answer
		t.Log("Verifying stateless level calculation")
		estimate := calculateLevel(t, router, "Ozempic®", string(model.FrequencyWeekly), doseDate)
		assert.InDelta(t, result.Estimate.Level, estimate.Level, 1.0,
			"Stateless calculation should match the stored-dose estimate")

		// Snapshot persists the estimate
		t.Log("Recording level snapshot")
		snapshot := recordSnapshot(t, router, userID)
		assert.Equal(t, userID.String(), snapshot.UserID)
		assert.InDelta(t, result.Estimate.Level, snapshot.CalculatedLevel, 1.0)

		// History returns the appended snapshot
		t.Log("Verifying snapshot history")
		history := getLevelHistory(t, router, userID)
		assert.GreaterOrEqual(t, len(history), 1, "History should contain the snapshot")
	})
}

// logDose logs a dose and returns the created dose event
func logDose(t *testing.T, router *gin.Engine, userID uuid.UUID, medication, dosage, site string, date *time.Time) model.DoseEvent {
	reqBody := api.LogDoseRequest{
		UserId:        userID,
		Date:          date,
		Medication:    medication,
		Dosage:        dosage,
		InjectionSite: site,
		PainLevel:     2,
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/doses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Logf("Response body: %s", w.Body.String())
	}
	require.Equal(t, http.StatusCreated, w.Code, "Log dose should return 201 Created")

	var dose model.DoseEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dose), "Should be able to parse response")
	return dose
}

// listDoses retrieves the dose history for a user
func listDoses(t *testing.T, router *gin.Engine, userID uuid.UUID) []model.DoseEvent {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "List doses should return 200 OK")

	var doses []model.DoseEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doses))
	return doses
}

// getDose retrieves a single dose by ID
func getDose(t *testing.T, router *gin.Engine, doseID string) model.DoseEvent {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/"+doseID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get dose should return 200 OK")

	var dose model.DoseEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dose))
	return dose
}

// getLatestDose retrieves the most recent dose for a user
func getLatestDose(t *testing.T, router *gin.Engine, userID uuid.UUID) model.DoseEvent {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/latest?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get latest dose should return 200 OK")

	var dose model.DoseEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dose))
	return dose
}

// getNextDose retrieves the next dose countdown for a user
func getNextDose(t *testing.T, router *gin.Engine, userID uuid.UUID) service.NextDoseInfo {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/next?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get next dose should return 200 OK")

	var info service.NextDoseInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	return info
}

// getDoseStats retrieves aggregate dose statistics for a user
func getDoseStats(t *testing.T, router *gin.Engine, userID uuid.UUID) repository.DoseStats {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/stats?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get dose stats should return 200 OK")

	var stats repository.DoseStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	return stats
}

// getSiteRecommendations retrieves rotation suggestions for a user
func getSiteRecommendations(t *testing.T, router *gin.Engine, userID uuid.UUID) []model.InjectionSite {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doses/site-recommendations?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get site recommendations should return 200 OK")

	var response struct {
		RecommendedSites []model.InjectionSite `json:"recommended_sites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.RecommendedSites
}

// updateDose updates an existing dose event
func updateDose(t *testing.T, router *gin.Engine, doseID, medication, dosage, site string, painLevel int) {
	reqBody := api.UpdateDoseRequest{
		Medication:    medication,
		Dosage:        dosage,
		InjectionSite: site,
		PainLevel:     painLevel,
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/doses/"+doseID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Logf("Response body: %s", w.Body.String())
	}
	require.Equal(t, http.StatusOK, w.Code, "Update dose should return 200 OK")
}

// deleteDose deletes a dose event
func deleteDose(t *testing.T, router *gin.Engine, doseID string) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/doses/"+doseID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code, "Delete dose should return 204 No Content")
}

// getCurrentLevel retrieves the current medication level estimate
func getCurrentLevel(t *testing.T, router *gin.Engine, userID uuid.UUID) service.LevelResult {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/medication-level?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get medication level should return 200 OK")

	var result service.LevelResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

// calculateLevel runs a stateless level calculation
func calculateLevel(t *testing.T, router *gin.Engine, medication, frequency string, lastDose time.Time) dosing.Estimate {
	reqBody := api.CalculateLevelRequest{
		Medication:   medication,
		Frequency:    frequency,
		LastDoseDate: lastDose,
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medication-level/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Calculate level should return 200 OK")

	var estimate dosing.Estimate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &estimate))
	return estimate
}

// recordSnapshot persists a level snapshot for a user
func recordSnapshot(t *testing.T, router *gin.Engine, userID uuid.UUID) model.MedicationLevelSnapshot {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medication-level/snapshot?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Logf("Response body: %s", w.Body.String())
	}
	require.Equal(t, http.StatusCreated, w.Code, "Record snapshot should return 201 Created")

	var snapshot model.MedicationLevelSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	return snapshot
}

// getLevelHistory retrieves stored level snapshots for a user
func getLevelHistory(t *testing.T, router *gin.Engine, userID uuid.UUID) []model.MedicationLevelSnapshot {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/medication-level/history?user_id="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Get level history should return 200 OK")

	var snapshots []model.MedicationLevelSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshots))
	return snapshots
}
