package main

import (
	"context"
	"os/signal"
	"syscall"

	"gurukul/internal/config"
	"gurukul/internal/database"
	"gurukul/internal/logger"
	"gurukul/internal/orchestrator/media"
	"gurukul/internal/pgmq"
	"gurukul/internal/repository"
	"gurukul/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to create S3 client: %v", err)
	}
	store := storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3PublicURL)
	queue := pgmq.NewQueue(db, cfg.MediaQueueName)
	logger.Info().Str("queue", queue.Name()).Msg("PGMQ queue initialized")

	if err := media.Run(ctx, logger, cfg, queue, repository.NewMediaRepo(db), store); err != nil {
		logger.Fatal().Msgf("media orchestrator failed: %v", err)
	}
	logger.Info().Msg("media orchestrator stopped gracefully")
}
