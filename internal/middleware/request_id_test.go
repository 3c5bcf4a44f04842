package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba5maa/FileBlogSystem/internal/middleware"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	router.GET("/api/posts", func(c *gin.Context) {
		requestID := middleware.GetRequestID(c)
		c.JSON(http.StatusOK, gin.H{"request_id": requestID})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Len(t, requestID, 36) // UUID v4 length
}

func TestRequestID_UsesClientProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	router.GET("/api/posts", func(c *gin.Context) {
		requestID := middleware.GetRequestID(c)
		c.JSON(http.StatusOK, gin.H{"request_id": requestID})
	})

	clientRequestID := "client-provided-id-12345"
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set(middleware.RequestIDHeader, clientRequestID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Check response header contains client-provided request ID
	requestID := w.Header().Get(middleware.RequestIDHeader)
	assert.Equal(t, clientRequestID, requestID)
}

func TestRequestID_SetInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	var capturedRequestID string
	router.GET("/api/posts", func(c *gin.Context) {
		capturedRequestID = middleware.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, capturedRequestID)
}

func TestRequestID_SetInResponseHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	router.GET("/api/posts", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, requestID)
}

func TestGetRequestID_ReturnsEmptyWhenNotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	requestID := middleware.GetRequestID(c)
	assert.Empty(t, requestID)
}

func TestGetRequestID_ReturnsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	expectedID := "test-request-id"
	c.Set(middleware.RequestIDKey, expectedID)

	requestID := middleware.GetRequestID(c)
	assert.Equal(t, expectedID, requestID)
}

func TestGetRequestID_ReturnsEmptyWhenWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Set(middleware.RequestIDKey, 12345)

	requestID := middleware.GetRequestID(c)
	assert.Empty(t, requestID)
}

func TestRequestID_MultipleRequests_DifferentIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	var requestIDs []string
	router.GET("/api/posts", func(c *gin.Context) {
		requestID := middleware.GetRequestID(c)
		requestIDs = append(requestIDs, requestID)
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Len(t, requestIDs, 3)
	assert.NotEqual(t, requestIDs[0], requestIDs[1])
	assert.NotEqual(t, requestIDs[1], requestIDs[2])
	assert.NotEqual(t, requestIDs[0], requestIDs[2])
}

func TestRequestID_ReplacesUnusableClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		id   string
	}{
		{name: "too long", id: strings.Repeat("a", 129)},
		{name: "contains space", id: "two words"},
		{name: "contains newline", id: "line\nbreak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.RequestID())
			router.GET("/api/posts", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			req.Header[middleware.RequestIDHeader] = []string{tt.id}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(middleware.RequestIDHeader)
			assert.NotEqual(t, tt.id, got)
			assert.Len(t, got, 36)
		})
	}
}
