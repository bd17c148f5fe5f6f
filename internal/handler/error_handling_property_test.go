package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/semaglide/backend/pkg/api"
	"go.uber.org/zap"
)

// Every binding failure must produce the standard error envelope with a
// code and message, regardless of which endpoint rejected the request.
func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	properties.Property("All error responses follow standard structure with code, message, and optional details", prop.ForAll(
		func(errorScenario string) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, router := gin.CreateTestContext(w)

			var expectedCode string
			var expectedStatus int

			switch errorScenario {
			case "invalid_json_dose":
				handler := &DoseHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Doses)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString("{invalid json"))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "invalid_json_checkup":
				handler := &CheckupHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Checkups)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"current_weight": }`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "missing_required_weight":
				handler := &WeightHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Weight)

				userID := uuid.New()
				reqBody := fmt.Sprintf(`{"user_id":"%s"}`, userID.String())
				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(reqBody))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "invalid_uuid_format":
				handler := &DoseHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Doses)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"user_id":"not-a-uuid"}`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			case "malformed_json_array":
				handler := &ScheduleHandler{logger: logger}
				router.PUT("/test", handler.PutApiV1Schedule)

				c.Request = httptest.NewRequest("PUT", "/test", bytes.NewBufferString(`[1,2,3`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

				expectedCode = "VALIDATION_ERROR"
				expectedStatus = http.StatusBadRequest

			default:
				return true
			}

			// Verify status code
			if w.Code != expectedStatus {
				t.Logf("Scenario %s: Expected status code %d, got %d", errorScenario, expectedStatus, w.Code)
				return false
			}

			// Parse response body
			var errorResp api.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("Scenario %s: Failed to parse error response: %v, body: %s", errorScenario, err, w.Body.String())
				return false
			}

			// Verify required fields exist
			if errorResp.Code == "" {
				t.Logf("Scenario %s: Error response missing 'code' field", errorScenario)
				return false
			}

			if errorResp.Message == "" {
				t.Logf("Scenario %s: Error response missing 'message' field", errorScenario)
				return false
			}

			// Verify code matches expected
			if errorResp.Code != expectedCode {
				t.Logf("Scenario %s: Expected error code '%s', got '%s'", errorScenario, expectedCode, errorResp.Code)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"invalid_json_dose",
			"invalid_json_checkup",
			"missing_required_weight",
			"invalid_uuid_format",
			"malformed_json_array",
		),
	))

	properties.TestingRun(t)
}

// Malformed request bodies must never reach a service method. The binding
// layer rejects them with 400 and the VALIDATION_ERROR code.
func TestProperty_RequestValidationCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	properties.Property("Request validation catches all invalid inputs and returns appropriate error responses", prop.ForAll(
		func(validationType string, invalidValue int) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, router := gin.CreateTestContext(w)

			switch validationType {
			case "invalid_json_structure":
				handler := &DoseHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Doses)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{invalid json`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			case "invalid_uuid_type":
				handler := &DoseHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Doses)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"user_id":"not-a-uuid"}`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			case "invalid_date_format":
				handler := &ScheduleHandler{logger: logger}
				router.PUT("/test", handler.PutApiV1Schedule)

				userID := uuid.New()
				reqBody := fmt.Sprintf(`{"user_id":"%s","medication":"Ozempic®","dosage":"0.25mg","frequency":"Every 7 days (most common)","start_date":"not-a-date"}`, userID.String())
				c.Request = httptest.NewRequest("PUT", "/test", bytes.NewBufferString(reqBody))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			case "incomplete_json_object":
				handler := &DoseHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Doses)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"user_id":`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			case "wrong_json_type":
				handler := &CheckupHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Checkups)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`[]`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			case "malformed_json_quotes":
				handler := &WeightHandler{logger: logger}
				router.POST("/test", handler.PostApiV1Weight)

				c.Request = httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"unit": "kg"value"}`))
				c.Request.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, c.Request)

			default:
				return true
			}

			// Verify that a 400 Bad Request was returned
			if w.Code != http.StatusBadRequest {
				t.Logf("Validation type %s: Expected status 400 for validation error, got %d", validationType, w.Code)
				return false
			}

			// Parse error response
			var errorResp api.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("Validation type %s: Failed to parse error response: %v, body: %s", validationType, err, w.Body.String())
				return false
			}

			// Verify error code is VALIDATION_ERROR
			if errorResp.Code != "VALIDATION_ERROR" {
				t.Logf("Validation type %s: Expected error code 'VALIDATION_ERROR', got '%s'", validationType, errorResp.Code)
				return false
			}

			// Verify message is present and descriptive
			if errorResp.Message == "" {
				t.Logf("Validation type %s: Error message is empty", validationType)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"invalid_json_structure",
			"invalid_uuid_type",
			"invalid_date_format",
			"incomplete_json_object",
			"wrong_json_type",
			"malformed_json_quotes",
		),
		gen.IntRange(0, 100), // Dummy parameter for variety
	))

	properties.TestingRun(t)
}
