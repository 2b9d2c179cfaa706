package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/auth"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/metrics"
)

func newTestRouter(health func(ctx context.Context) error, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Config{
		Logger:      zap.NewNop(),
		Metrics:     m,
		HealthCheck: health,
		JWTManager:  auth.NewJWTManager("test-secret", time.Minute),
	})
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(func(context.Context) error { return nil }, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthz_StoreDown(t *testing.T) {
	r := newTestRouter(func(context.Context) error { return errors.New("connection refused") }, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(nil, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/resources"},
		{http.MethodPost, "/v1/bookings"},
		{http.MethodGet, "/v1/bookings/availability"},
		{http.MethodGet, "/v1/resources/abc/bookings"},
		{http.MethodGet, "/v1/parties/deal/42/bookings"},
		{http.MethodGet, "/v1/calendar"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("Exposed when enabled", func(t *testing.T) {
		r := newTestRouter(nil, metrics.New("routertest"))

		// Generate one request so the HTTP counters have a sample.
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "routertest_http_requests_total")
	})

	t.Run("Absent when disabled", func(t *testing.T) {
		r := newTestRouter(nil, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAllowedOrigins(t *testing.T) {
	assert.Contains(t, allowedOrigins(false, ""), "http://localhost:3000")
	assert.Equal(t, []string{"https://crm.example.com", "https://admin.example.com"},
		allowedOrigins(true, "https://crm.example.com, https://admin.example.com,"))
}
