package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gurukul/internal/api/v1/router"
	"gurukul/internal/config"
	"gurukul/internal/logger"
	"gurukul/internal/secrets"

	"github.com/joho/godotenv"
)

// @title Neo-Gurukul API
// @version 1.0
// @description Courses, enrollments, assessments, media library and community for the Neo-Gurukul portal.
// @host localhost:8080
// @BasePath /v1
// @Schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// 2. Pull the signing key from Secret Manager when configured
	if cfg.JWTSecretName != "" {
		accessor, closeAccessor, err := secrets.NewSecretManagerAccessor(ctx)
		if err != nil {
			logger.Fatal().Msgf("Failed to create secret accessor: %v", err)
		}
		if err := secrets.ResolveJWTSecret(ctx, cfg, accessor); err != nil {
			logger.Fatal().Msgf("Failed to resolve JWT secret: %v", err)
		}
		closeAccessor()
	}

	// 3. Build router and its connections
	r, cleanup, err := router.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 4. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Msgf("Server forced to shutdown: %v", err)
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
