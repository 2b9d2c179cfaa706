package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/api"
	"github.com/nekogravitycat/slot-booking-backend/internal/auth"
	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/db"
	"github.com/nekogravitycat/slot-booking-backend/internal/events"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	Logger       *zap.Logger

	Cache            cache.Cache
	ResourceCacheTTL time.Duration
	Publisher        events.Publisher
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	LinkConcurrency     int
	EnforceAvailability bool
	CalendarDefaultDays int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var recorder booking.Recorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	if cfg.Cache != nil {
		resRepo = resource.NewCachedRepository(resRepo, cfg.Cache, cfg.ResourceCacheTTL, cfg.Logger)
	}
	resService := resource.NewService(resRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, resService, cfg.Logger, booking.Options{
		LinkConcurrency: cfg.LinkConcurrency,
		Publisher:       cfg.Publisher,
		Recorder:        recorder,
		Guard:           booking.NewResourceGuard(),
	})

	// API Router Config
	routerParams := api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
		HealthCheck: func(ctx context.Context) error {
			return db.Ping(ctx, cfg.DBPool)
		},
		ResService:          resService,
		BookingService:      bookingService,
		JWTManager:          jwtManager,
		EnforceAvailability: cfg.EnforceAvailability,
		CalendarDefaultDays: cfg.CalendarDefaultDays,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}
}
