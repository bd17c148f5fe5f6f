package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/semaglide/backend/internal/audit"
)

// auditResourceTypes maps the first API path segment after the version
// prefix to an audit resource type.
var auditResourceTypes = map[string]audit.ResourceType{
	"doses":            audit.ResourceDoseEvent,
	"schedule":         audit.ResourceSchedule,
	"medication-level": audit.ResourceLevelSnapshot,
	"checkups":         audit.ResourceWeeklyCheckup,
	"weight":           audit.ResourceWeightEntry,
	"nutrition":        audit.ResourceMealLog,
	"activity":         audit.ResourceWorkoutLog,
	"reports":          audit.ResourceReport,
}

// AuditMiddleware records successful mutating requests in the audit log.
// Reads are not audited; they dominate traffic and carry no change.
func AuditMiddleware(auditLogger *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var op audit.OperationType
		switch c.Request.Method {
		case "POST":
			op = audit.OperationCreate
		case "PUT", "PATCH":
			op = audit.OperationUpdate
		case "DELETE":
			op = audit.OperationDelete
		default:
			return
		}

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}

		resourceType, ok := resourceTypeFromPath(c.Request.URL.Path)
		if !ok {
			return
		}

		userID := c.Query("user_id")
		if userID == "" {
			if v, exists := c.Get("user_id"); exists {
				if s, isString := v.(string); isString {
					userID = s
				}
			}
		}

		entry := audit.AuditLog{
			UserID:        userID,
			OperationType: op,
			ResourceType:  resourceType,
			ResourceID:    c.Param("id"),
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
		}

		// Audit failures must not fail the request; Log reports them.
		_ = auditLogger.Log(c.Request.Context(), entry)
	}
}

// resourceTypeFromPath extracts the audited resource from a versioned
// API path such as /api/v1/doses/123.
func resourceTypeFromPath(path string) (audit.ResourceType, bool) {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	segment := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	resourceType, ok := auditResourceTypes[segment]
	return resourceType, ok
}
