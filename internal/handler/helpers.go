package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"
	"github.com/semaglide/backend/pkg/api"
)

// Helper functions for type conversions between API types and internal models

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// uuidToString converts types.UUID to string
func uuidToString(u types.UUID) string {
	return uuid.UUID(u).String()
}

// dateToTime converts types.Date to time.Time
func dateToTime(d types.Date) time.Time {
	return d.Time
}

// userIDFromQuery extracts and validates the user_id query parameter.
// On failure it writes the error response and returns false.
func userIDFromQuery(c *gin.Context) (string, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Missing user_id query parameter",
		})
		return "", false
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid user_id: must be a UUID",
			Details: stringPtr(err.Error()),
		})
		return "", false
	}
	return parsed.String(), true
}

// timeRangeFromQuery parses optional from/to query parameters in
// RFC 3339 or date-only form. On failure it writes the error response
// and returns false.
func timeRangeFromQuery(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = parseFlexibleTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid from parameter",
				Details: stringPtr(err.Error()),
			})
			return time.Time{}, time.Time{}, false
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = parseFlexibleTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid to parameter",
				Details: stringPtr(err.Error()),
			})
			return time.Time{}, time.Time{}, false
		}
	}
	return from, to, true
}

func parseFlexibleTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
