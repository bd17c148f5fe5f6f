package middleware

import (
	"testing"

	"github.com/semaglide/backend/internal/audit"
	"github.com/stretchr/testify/assert"
)

func TestResourceTypeFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected audit.ResourceType
		found    bool
	}{
		{
			name:     "dose collection",
			path:     "/api/v1/doses",
			expected: audit.ResourceDoseEvent,
			found:    true,
		},
		{
			name:     "dose by id",
			path:     "/api/v1/doses/123",
			expected: audit.ResourceDoseEvent,
			found:    true,
		},
		{
			name:     "dose photo subresource",
			path:     "/api/v1/doses/123/photo",
			expected: audit.ResourceDoseEvent,
			found:    true,
		},
		{
			name:     "schedule",
			path:     "/api/v1/schedule",
			expected: audit.ResourceSchedule,
			found:    true,
		},
		{
			name:     "level snapshot",
			path:     "/api/v1/medication-level/snapshot",
			expected: audit.ResourceLevelSnapshot,
			found:    true,
		},
		{
			name:     "checkups",
			path:     "/api/v1/checkups",
			expected: audit.ResourceWeeklyCheckup,
			found:    true,
		},
		{
			name:     "weight",
			path:     "/api/v1/weight/progress",
			expected: audit.ResourceWeightEntry,
			found:    true,
		},
		{
			name:     "reports",
			path:     "/api/v1/reports/generate",
			expected: audit.ResourceReport,
			found:    true,
		},
		{
			name:  "health endpoint is not audited",
			path:  "/health",
			found: false,
		},
		{
			name:  "unknown resource",
			path:  "/api/v1/unknown",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resourceType, ok := resourceTypeFromPath(tt.path)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, resourceType)
			}
		})
	}
}
