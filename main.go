package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
	"clinic-booking-server/internal/routes"
	"clinic-booking-server/internal/scheduler"
	"clinic-booking-server/internal/seed"
	"clinic-booking-server/internal/services"
)

func main() {
	// Load environment variables; a missing .env is fine in production
	_ = godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Reference codes must exist before the engine will accept anything
	if err := seed.ReferenceCodes(db); err != nil {
		logger.Fatal().Err(err).Msg("Error seeding reference codes")
	}
	if cfg.SeedDemoData {
		if err := seed.DemoData(db, cfg.JWTSecret, logger); err != nil {
			logger.Fatal().Err(err).Msg("Error seeding demo data")
		}
	}

	// Wire repositories and services
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	allcodeRepo := repository.NewAllcodeRepository(db)

	allcodeService := services.NewAllcodeService(allcodeRepo)
	if err := allcodeService.Load(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Error loading reference codes")
	}

	scheduleService := services.NewScheduleService(scheduleRepo, allcodeService, cfg.AutoApproveAdmin, logger)
	bookingService := services.NewBookingService(bookingRepo, scheduleRepo, allcodeService, logger)

	// Initialize Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Services{
		Schedules: scheduleService,
		Bookings:  bookingService,
		Allcodes:  allcodeService,
	}, cfg)

	// Retention sweeper runs outside the request path
	sweeper := scheduler.New(bookingService, cfg.SweeperInterval, cfg.RetentionWindow(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sweeper.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
