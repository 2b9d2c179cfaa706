package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by the service.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookingsCreated    *prometheus.CounterVec
	bookingConflicts   prometheus.Counter
	partyLinkFailures  *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	calendarProjection prometheus.Histogram

	registry *prometheus.Registry
}

// New registers all collectors on a fresh registry under the given namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Product slots created, labelled by whether availability was enforced.",
		}, []string{"enforced"}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Creates rejected because of a blocking overlap.",
		}),
		partyLinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "party_link_failures_total",
			Help:      "Failed booking-to-party link writes by party type.",
		}, []string{"party_type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_updates_total",
			Help:      "Status updates by target status.",
		}, []string{"status"}),
		calendarProjection: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calendar_projection_cells",
			Help:      "Number of cells produced per calendar projection.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.bookingConflicts,
		m.partyLinkFailures,
		m.statusTransitions,
		m.calendarProjection,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}

// GinMiddleware records request counts and latencies by route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BookingCreated counts a persisted booking.
func (m *Metrics) BookingCreated(enforced bool) {
	m.bookingsCreated.WithLabelValues(strconv.FormatBool(enforced)).Inc()
}

// BookingConflict counts a create rejected for overlap.
func (m *Metrics) BookingConflict() {
	m.bookingConflicts.Inc()
}

// PartyLinkFailed counts one failed link write.
func (m *Metrics) PartyLinkFailed(partyType string) {
	m.partyLinkFailures.WithLabelValues(partyType).Inc()
}

// StatusUpdated counts a status change.
func (m *Metrics) StatusUpdated(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// CalendarProjected records the size of a projected grid.
func (m *Metrics) CalendarProjected(cells int) {
	m.calendarProjection.Observe(float64(cells))
}
