package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/app"
	"github.com/nekogravitycat/slot-booking-backend/internal/config"
	"github.com/nekogravitycat/slot-booking-backend/internal/db"
	"github.com/nekogravitycat/slot-booking-backend/internal/events"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/metrics"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	zl, err := logger.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{ApplicationName: "slot-booking"})
	if err != nil {
		zl.Fatal("Failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, zl); err != nil {
		zl.Fatal("Failed to migrate db", zap.Error(err))
	}

	// Cache
	c := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, zl)
	if closer, ok := c.(io.Closer); ok {
		defer closer.Close()
	}

	// Event publisher
	var publisher events.Publisher = events.NewNopPublisher(zl)
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zl)
		if err != nil {
			zl.Warn("Kafka unavailable, booking events will be dropped", zap.Error(err))
		} else {
			publisher = kp
		}
	}
	defer publisher.Close()

	// Metrics
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("slotbooking")
	}

	container := app.NewContainer(app.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		DBPool:              pool,
		JWTSecret:           cfg.JWTSecret,
		JWTTTL:              cfg.JWTAccessTokenTTL,
		Logger:              zl,
		Cache:               c,
		ResourceCacheTTL:    cfg.ResourceCacheTTL,
		Publisher:           publisher,
		Metrics:             m,
		LinkConcurrency:     cfg.LinkConcurrency,
		EnforceAvailability: cfg.EnforceAvailability,
		CalendarDefaultDays: cfg.CalendarDefaultDays,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("Server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("Shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exited gracefully")
}
