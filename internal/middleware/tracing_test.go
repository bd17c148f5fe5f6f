package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceCapture struct {
	requestID string
	traceID   string
}

func traceTestRouter(capture *traceCapture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(TracingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		capture.requestID = c.GetString("request_id")
		capture.traceID = c.GetString("trace_id")
		c.Status(http.StatusOK)
	})
	return router
}

func TestTracingMiddleware_MintsTraceID(t *testing.T) {
	// Arrange
	var captured traceCapture
	router := traceTestRouter(&captured)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	traceID := w.Header().Get("X-Trace-ID")
	require.NotEmpty(t, traceID)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.Equal(t, traceID, captured.traceID)
}

func TestTracingMiddleware_ReusesIncomingTraceID(t *testing.T) {
	// Arrange
	var captured traceCapture
	router := traceTestRouter(&captured)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "caller-trace-42")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, "caller-trace-42", w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "caller-trace-42", captured.traceID)
}

func TestRequestIDMiddleware_MintsUniqueIDs(t *testing.T) {
	// Arrange
	var captured traceCapture
	router := traceTestRouter(&captured)

	// Act
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		requestID := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, requestID)
		_, err := uuid.Parse(requestID)
		require.NoError(t, err)
		seen[requestID] = true
	}

	// Assert
	assert.Len(t, seen, 3)
	assert.NotEmpty(t, captured.requestID)
}
