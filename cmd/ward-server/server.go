package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/renalward/internal/config"
	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/domain/clinical"
	"github.com/ehr/renalward/internal/domain/patient"
	"github.com/ehr/renalward/internal/domain/ward"
	"github.com/ehr/renalward/internal/platform/blobstore"
	"github.com/ehr/renalward/internal/platform/db"
	"github.com/ehr/renalward/internal/platform/events"
	"github.com/ehr/renalward/internal/platform/lock"
	"github.com/ehr/renalward/internal/platform/middleware"
	"github.com/ehr/renalward/pkg/clock"
)

const version = "0.1.0"

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// newEcho builds the server with the global middleware chain and the
// liveness endpoint. Domain routes are mounted on the returned /api/v1 group.
func newEcho(cfg *config.Config, logger zerolog.Logger) (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RequestTimeout > 0 {
		apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	}

	return e, apiV1
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsDev() {
		logger.Warn().Msg("running in development mode")
	}

	loc, _ := cfg.Location()
	clk := clock.System{Location: loc}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Intake lock
	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisURL != "" {
		rl, client, err := lock.NewRedis(ctx, cfg.RedisURL, cfg.IntakeLockTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		locker = rl
		logger.Info().Dur("ttl", cfg.IntakeLockTTL).Msg("intake lock backed by redis")
	}

	// Lifecycle events
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing lifecycle events to kafka")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("close event publisher")
		}
	}()

	// Summary archive
	var archive blobstore.Store = blobstore.NewInMemoryStore()
	if cfg.ArchiveBackend == config.ArchiveS3 {
		s3Store, err := blobstore.NewS3Store(ctx, cfg.S3Bucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure s3 archive")
		}
		archive = s3Store
	}
	logger.Info().Str("backend", cfg.ArchiveBackend).Msg("discharge summary archive ready")

	// Domain services
	registry := patient.NewRegistry(patient.NewRepo(pool))
	ledger := admission.NewLedger(admission.NewRepo(pool), clk)
	clinicalSvc := clinical.NewService(clinical.NewNoteRepoPG(pool), clinical.NewSummaryRepoPG(pool), clk)
	wardSvc := ward.NewService(ward.Deps{
		Registry: registry,
		Ledger:   ledger,
		Clinical: clinicalSvc,
		Tx:       db.NewTransactor(pool),
		Locker:   locker,
		Events:   publisher,
		Archive:  archive,
		Clock:    clk,
	})

	e, apiV1 := newEcho(cfg, logger)
	e.GET("/health/db", db.HealthHandler(pool))
	ward.NewHandler(wardSvc).RegisterRoutes(apiV1)
	patient.NewHandler(registry).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
