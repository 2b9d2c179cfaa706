package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/auth"
	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/slot-booking-backend/internal/booking/http"
	calendarHttp "github.com/nekogravitycat/slot-booking-backend/internal/calendar/http"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
	resHttp "github.com/nekogravitycat/slot-booking-backend/internal/resource/http"
)

// Config holds what the router needs to assemble middleware and handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics
	// HealthCheck reports whether backing stores are reachable.
	HealthCheck func(ctx context.Context) error

	ResService     resource.Service
	BookingService booking.Service
	JWTManager     *auth.JWTManager

	EnforceAvailability bool
	CalendarDefaultDays int
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Metrics, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: structured request log through zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.GinMiddleware(cfg.Logger), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.GinMiddleware())
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// Unauthenticated operational endpoints.
	r.GET("/healthz", healthHandler(cfg.HealthCheck))
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Metrics.Handler())
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Calendar metrics are optional; keep the interface nil when disabled.
	var calendarRecorder calendarHttp.Recorder
	if cfg.Metrics != nil {
		calendarRecorder = cfg.Metrics
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	resHandler := resHttp.NewHandler(cfg.ResService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.EnforceAvailability)
	calendarHandler := calendarHttp.NewHandler(cfg.ResService, cfg.BookingService, calendarRecorder, cfg.CalendarDefaultDays)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		calendarHttp.RegisterRoutes(v1, calendarHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{"http://localhost:3000", "http://localhost:8081"}
	}
	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
