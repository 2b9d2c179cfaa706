package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpointExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("slotbooking")

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.Handler())

	m.BookingCreated(true)
	m.BookingConflict()
	m.PartyLinkFailed("deal")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `slotbooking_bookings_created_total{enforced="true"} 1`)
	assert.Contains(t, body, "slotbooking_booking_conflicts_total 1")
	assert.Contains(t, body, `slotbooking_party_link_failures_total{party_type="deal"} 1`)
	assert.Contains(t, body, `slotbooking_http_requests_total{method="GET",route="/ping",status="204"} 1`)
}
